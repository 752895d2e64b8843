// Package main library API.
//
// @title           Misbah Library API
// @version         1.0
// @description     library service (catalog, borrow requests, user administration).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer"
	adminctrl "github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/admin"
	authctrl "github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/auth"
	bookctrl "github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/book"
	borrowctrl "github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/borrow"
	profilectrl "github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/controller/profile"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/app/echoServer/validation"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/config"
	authrepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/auth"
	bookrepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/book"
	borrowrepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/borrow"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/openlibrary"
	profilerepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/profile"
	rolerepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/role"
	adminsvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/admin"
	authsvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/auth"
	booksvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/book"
	borrowsvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/borrow"
	profilesvc "github.com/thabsheeribrahim2004-sudo/misbahlibrary/service/profile"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx, cfg.MigrationsDir); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// repos
	ar := authrepo.New(db.Pool)
	br := bookrepo.New(db.Pool)
	rr := borrowrepo.New(db.Pool)
	pr := profilerepo.New(db.Pool)
	ur := rolerepo.New(db.Pool)
	ol := openlibrary.NewHTTP()

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br, ol)
	rs := borrowsvc.New(db.Pool, rr)
	ps := profilesvc.New(pr)
	ms := adminsvc.New(ar, ur)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}
	profileC := &profilectrl.Controller{Svc: ps, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: ms, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		Borrow:  borrowC,
		Profile: profileC,
		Admin:   adminC,

		Roles:     ur,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
