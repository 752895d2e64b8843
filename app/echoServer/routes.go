package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/admin"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/auth"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/book"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/borrow"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/profile"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
)

type C struct {
	Auth    *auth.Controller
	Book    *book.Controller
	Borrow  *borrow.Controller
	Profile *profile.Controller
	Admin   *admin.Controller

	Roles     RoleLoader
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// catalog reads are open to everyone
	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)
	pub.GET("/books/:id/availability", c.Borrow.Availability)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization:Bearer ",
	}))
	authed.Use(LoadCaller(c.Roles))

	// Borrow lifecycle
	authed.POST("/borrow-requests", c.Borrow.Create)
	authed.GET("/borrow-requests/my", c.Borrow.ListMine)
	authed.GET("/borrow-requests", c.Borrow.ListAll)
	// Admin transitions
	authed.POST("/borrow-requests/:id/approve", c.Borrow.Approve)
	authed.POST("/borrow-requests/:id/reject", c.Borrow.Reject)
	authed.POST("/borrow-requests/:id/return", c.Borrow.Return)

	// Catalog management (admin, enforced in the service)
	authed.POST("/books", c.Book.Create)
	authed.PUT("/books/:id", c.Book.Update)
	authed.POST("/books/:id/copies", c.Book.AddCopies)

	// Profile
	authed.GET("/profile", c.Profile.Mine)
	authed.PUT("/profile", c.Profile.Update)

	// own role assignments only; the set was loaded by LoadCaller
	authed.GET("/roles/my", func(ctx echo.Context) error {
		actor, _ := ctx.Get("caller").(policy.Caller)
		return ctx.JSON(http.StatusOK, echo.Map{"roles": actor.Roles})
	})

	// Privileged user administration
	authed.DELETE("/admin/users", c.Admin.DeleteUser)
	authed.POST("/admin/bootstrap", c.Admin.Bootstrap)
	authed.POST("/admin/roles", c.Admin.ManageRole)
}
