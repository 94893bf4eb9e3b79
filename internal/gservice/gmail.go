// Package gservice wraps the Google APIs used by the compose tools.
package gservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hal9000y/compose-mcp/internal/auth"
)

const gmailUserID = "me"

func NewGmail(cfg *oauth2.Config, tok *auth.Token) *GMail {
	return &GMail{
		cfg: cfg,
		tok: tok,
	}
}

type GMail struct {
	cfg *oauth2.Config
	tok *auth.Token
}

// CreateDraft saves a plain text email as a draft in the user's mailbox.
func (m *GMail) CreateDraft(ctx context.Context, to, subject, body string) (*gmail.Draft, error) {
	raw, err := BuildMessage(to, subject, body)
	if err != nil {
		return nil, fmt.Errorf("BuildMessage failed: %w", err)
	}

	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft, err := svc.Users.Drafts.Create(gmailUserID, &gmail.Draft{
		Message: &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Create failed: %w", err)
	}

	return draft, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}

// BuildMessage renders an RFC 5322 plain text message. An empty to is
// allowed for drafts; otherwise it must parse as an address list.
func BuildMessage(to, subject, body string) ([]byte, error) {
	var b strings.Builder

	if to = strings.TrimSpace(to); to != "" {
		addrs, err := mail.ParseAddressList(to)
		if err != nil {
			return nil, fmt.Errorf("mail.ParseAddressList(%q) failed: %w", to, err)
		}
		list := make([]string, 0, len(addrs))
		for _, a := range addrs {
			list = append(list, a.String())
		}
		fmt.Fprintf(&b, "To: %s\r\n", strings.Join(list, ", "))
	}

	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")

	return []byte(b.String()), nil
}
