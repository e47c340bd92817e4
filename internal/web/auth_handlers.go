package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quizhall/quizhall/internal/auth"
	"github.com/quizhall/quizhall/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type signupForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required,max=120"`
}

type loginPageData struct {
	Title     string
	ActiveTab string
	Error     string
	Success   string
	User      pageUser
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render.Render(w, http.StatusOK, "login.html", loginPageData{Title: "Sign in", ActiveTab: "login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		s.render.Render(w, http.StatusBadRequest, "login.html",
			loginPageData{Title: "Sign in", ActiveTab: "login", Error: "Enter a valid email and password."})
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), form.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("login lookup: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if errors.Is(err, store.ErrNotFound) || !auth.CheckPassword(user.PasswordHash, form.Password) {
		s.render.Render(w, http.StatusUnauthorized, "login.html",
			loginPageData{Title: "Sign in", ActiveTab: "login", Error: "Invalid email or password."})
		return
	}

	s.startSession(w, r, user)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Password: r.FormValue("password"),
		Name:     strings.TrimSpace(r.FormValue("name")),
	}
	if err := validate.Struct(form); err != nil {
		s.render.Render(w, http.StatusBadRequest, "login.html", loginPageData{
			Title: "Sign up", ActiveTab: "signup",
			Error: "Name, a valid email and a password of at least 8 characters are required.",
		})
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), form.Email); err == nil {
		s.render.Render(w, http.StatusConflict, "login.html", loginPageData{
			Title: "Sign in", ActiveTab: "login",
			Error: "An account with that email already exists. Log in instead.",
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("signup lookup: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	user, err := s.store.CreateUser(r.Context(), form.Email, hash, form.Name)
	if err != nil {
		log.Printf("create user: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not create your account.")
		return
	}

	s.startSession(w, r, user)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user store.User) {
	token, err := s.auth.IssueToken(user.ID, user.FullName)
	if err != nil {
		log.Printf("issue token: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not start your session.")
		return
	}
	auth.SetSession(w, token)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
