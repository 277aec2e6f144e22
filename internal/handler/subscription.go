package handler

import (
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/utils"
)

// Subscribe handles POST /subscriptions (form fields: email, name).
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	err := h.subscription.Subscribe(r.Context(), r.PostFormValue("email"), r.PostFormValue("name"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Check your inbox to confirm your subscription"))
}

// ConfirmSubscription handles GET /subscriptions/confirm?token=...
func (h *Handler) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.subscription.Confirm(r.Context(), token); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Your subscription is confirmed"))
}
