package handler

import (
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/middleware"
	"github.com/inkpress-dev/inkpress/internal/utils"
)

type credentials struct {
	Username string `validate:"required" json:"username"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(r.Context(), domain.Credentials{
		Username: creds.Username,
		Password: domain.NewSecret(creds.Password),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("You logged in"))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

type changePasswordRequest struct {
	CurrentPassword  string `validate:"required" json:"current_password"`
	NewPassword      string `validate:"required" json:"new_password"`
	NewPasswordCheck string `validate:"required" json:"new_password_check"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var body changePasswordRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if body.NewPassword != body.NewPasswordCheck {
		http.Error(w, "The two new passwords do not match", http.StatusBadRequest)
		return
	}

	err := h.auth.ChangePassword(r.Context(), user.Username,
		domain.NewSecret(body.CurrentPassword), domain.NewSecret(body.NewPassword))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Your password has been changed"))
}
