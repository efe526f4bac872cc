package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	templateConfirm = "confirm_email.html"
	templateReset   = "reset_password.html"
)

// Message is a rendered email ready for delivery
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	Template string
}

type confirmData struct {
	Username string
	Link     string
	OpenURL  string
}

type resetData struct {
	Username string
	Token    string
	Link     string
}

// Renderer builds email bodies with links pointing at baseURL
type Renderer struct {
	baseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// Confirmation renders the email confirmation message
func (r *Renderer) Confirmation(to, username, token string) (Message, error) {
	data := confirmData{
		Username: username,
		Link:     r.baseURL + "/api/auth/confirmed_email/" + url.PathEscape(token),
		OpenURL:  r.baseURL + "/api/auth/open/" + url.PathEscape(username),
	}
	body, err := render(templateConfirm, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Confirm your email", HTMLBody: body, Template: templateConfirm}, nil
}

// PasswordReset renders the password reset message
func (r *Renderer) PasswordReset(to, username, token string) (Message, error) {
	data := resetData{
		Username: username,
		Token:    token,
		Link:     r.baseURL + "/reset-password?token=" + url.QueryEscape(token),
	}
	body, err := render(templateReset, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Password reset request", HTMLBody: body, Template: templateReset}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
