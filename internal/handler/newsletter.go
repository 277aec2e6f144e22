package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/inkpress-dev/inkpress/internal/utils"
)

// PublishNewsletter handles POST /admin/newsletters.
//
// Credentials come from HTTP Basic auth and are verified on every request;
// the form carries the issue plus the client-chosen idempotency key. The
// response is whatever the workflow produced — on replay that is the stored
// response, byte for byte.
func (h *Handler) PublishNewsletter(w http.ResponseWriter, r *http.Request) {
	creds, err := basicCredentials(r)
	if err != nil {
		unauthorized(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	issue := domain.NewsletterIssue{
		Title:       r.PostFormValue("title"),
		HtmlContent: r.PostFormValue("html_content"),
		TextContent: r.PostFormValue("text_content"),
	}
	key := r.PostFormValue("idempotency_key")

	if issue.Title == "" || issue.HtmlContent == "" || issue.TextContent == "" {
		http.Error(w, "Title, html_content and text_content are required", http.StatusBadRequest)
		return
	}

	response, err := h.newsletter.Publish(r.Context(), creds, issue, key)
	if err != nil {
		if errors.IsUnauthorized(err) {
			unauthorized(w, err)
			return
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	for name, values := range response.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(response.StatusCode)
	w.Write(response.Body)
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
	http.Error(w, err.Error(), http.StatusUnauthorized)
}

// basicCredentials extracts the username/password pair from the
// Authorization header.
func basicCredentials(r *http.Request) (domain.Credentials, error) {
	header := r.Header.Get("Authorization")
	encoded, found := strings.CutPrefix(header, "Basic ")
	if !found {
		return domain.Credentials{}, &errors.ErrorWithStatusCode{Message: "The authorization scheme must be Basic", StatusCode: http.StatusUnauthorized}
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.Credentials{}, &errors.ErrorWithStatusCode{Message: "Failed to decode Basic credentials", StatusCode: http.StatusUnauthorized}
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return domain.Credentials{}, &errors.ErrorWithStatusCode{Message: "A username and password must be provided", StatusCode: http.StatusUnauthorized}
	}

	return domain.Credentials{Username: username, Password: domain.NewSecret(password)}, nil
}
