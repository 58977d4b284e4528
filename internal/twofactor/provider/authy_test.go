package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/stretchr/testify/require"
)

func newTestAuthy(srv *httptest.Server) *Authy {
	return &Authy{BaseURL: srv.URL, Client: srv.Client()}
}

func TestAuthyCheckAPIKey(t *testing.T) {
	t.Parallel()

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/protected/xml/app/details", r.URL.Path)
			require.Equal(t, "good-key", r.URL.Query().Get("api_key"))
			w.Write([]byte(`<hash><app><name>demo</name></app></hash>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		require.NoError(t, p.CheckAPIKey(context.Background(), &domain.Settings{APIKey: "good-key"}))
	})

	t.Run("unauthorized means invalid key", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		err := p.CheckAPIKey(context.Background(), &domain.Settings{APIKey: "bad-key"})
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("other failure is a generic remote error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("service on fire"))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		err := p.CheckAPIKey(context.Background(), &domain.Settings{APIKey: "k"})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidAPIKey)
		require.Contains(t, err.Error(), "service on fire")
	})
}

func TestAuthyEnroll(t *testing.T) {
	t.Parallel()

	t.Run("success stores remote id and key", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/protected/xml/users/new", r.URL.Path)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "alice@example.com", r.PostForm.Get("user[email]"))
			require.Equal(t, "61", r.PostForm.Get("user[country_code]"))
			require.Equal(t, "412 345 678", r.PostForm.Get("user[cellphone]"))
			w.Write([]byte(`<hash><user><id type="integer">10543</id></user><message>User created successfully.</message></hash>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		rec := domain.Record{Username: "alice"}
		details := domain.EnrollmentDetails{Email: "alice@example.com", CountryCode: "61", Phone: "412 345 678"}

		require.NoError(t, p.Enroll(context.Background(), details, &rec, &domain.Settings{APIKey: "k3y"}))
		require.Equal(t, AuthyProviderID, rec.ProviderID)
		require.Equal(t, "10543", rec.ProviderUserID)
		require.Equal(t, "k3y", rec.APIKey)
	})

	t.Run("missing id wraps the raw body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`<errors><message>Invalid phone number</message></errors>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		rec := domain.Record{Username: "alice"}
		err := p.Enroll(context.Background(), domain.EnrollmentDetails{Email: "a@b", CountryCode: "1", Phone: "5"}, &rec, &domain.Settings{APIKey: "k"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "Invalid phone number")
		require.Empty(t, rec.ProviderUserID)
	})
}

func TestAuthyValidate(t *testing.T) {
	t.Parallel()

	t.Run("success marker", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/protected/xml/verify/1234567/10543", r.URL.Path)
			require.Equal(t, "k3y", r.URL.Query().Get("api_key"))
			require.Equal(t, "true", r.URL.Query().Get("force"))
			w.Write([]byte(`<hash><success type="boolean">true</success><message>Token is valid.</message></hash>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		require.NoError(t, p.Validate(context.Background(), "10543", "1234567", "k3y"))
	})

	t.Run("unauthorized means rejected token", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`<hash><success type="boolean">false</success><message>Token is invalid.</message></hash>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		err := p.Validate(context.Background(), "10543", "0000000", "k3y")
		require.ErrorIs(t, err, ErrTokenRejected)
	})

	t.Run("failure message is surfaced", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<hash><success type="boolean">false</success><message>User doesn't exist.</message></hash>`))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		err := p.Validate(context.Background(), "99999", "1234567", "k3y")
		require.Error(t, err)
		require.Contains(t, err.Error(), "User doesn't exist.")
	})

	t.Run("opaque body is surfaced verbatim", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("upstream proxy error"))
		}))
		defer srv.Close()

		p := newTestAuthy(srv)
		err := p.Validate(context.Background(), "10543", "1234567", "k3y")
		require.Error(t, err)
		require.Contains(t, err.Error(), "upstream proxy error")
	})

	t.Run("transport error passes through", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused

		p := newTestAuthy(srv)
		p.Client = &http.Client{Timeout: time.Second}
		err := p.Validate(context.Background(), "10543", "1234567", "k3y")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrTokenRejected)
	})
}

func TestAuthyParseForms(t *testing.T) {
	t.Parallel()

	p := NewAuthy(false)

	t.Run("api key accepted", func(t *testing.T) {
		t.Parallel()
		settings := domain.Settings{}
		require.NoError(t, p.ParseAPIKeyForm(url.Values{"apikey": {"s3cret-key"}}, &settings))
		require.Equal(t, "s3cret-key", settings.APIKey)
	})

	t.Run("api key with whitespace rejected", func(t *testing.T) {
		t.Parallel()
		settings := domain.Settings{}
		require.Error(t, p.ParseAPIKeyForm(url.Values{"apikey": {"bad key"}}, &settings))
		require.Error(t, p.ParseAPIKeyForm(url.Values{"apikey": {""}}, &settings))
	})

	t.Run("enrollment details accepted", func(t *testing.T) {
		t.Parallel()
		details, err := p.ParseEnrollForm(url.Values{
			"email":   {"alice@example.com"},
			"country": {"+61"},
			"phone":   {"412-345-678"},
		}, domain.Record{})
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", details.Email)
		require.Equal(t, "61", details.CountryCode, "leading + is stripped")
		require.Equal(t, "412-345-678", details.Phone)
	})

	t.Run("first invalid field fails fast", func(t *testing.T) {
		t.Parallel()
		for name, form := range map[string]url.Values{
			"bad email":    {"email": {"not-an-email"}, "country": {"61"}, "phone": {"412"}},
			"bad country":  {"email": {"a@b"}, "country": {"6100"}, "phone": {"412"}},
			"letters in p": {"email": {"a@b"}, "country": {"61"}, "phone": {"call me"}},
		} {
			_, err := p.ParseEnrollForm(form, domain.Record{})
			require.Error(t, err, name)
		}
	})
}

func TestAuthyEndpointSelection(t *testing.T) {
	t.Parallel()

	require.Equal(t, authyProductionBaseURL, NewAuthy(false).BaseURL)
	require.Equal(t, authySandboxBaseURL, NewAuthy(true).BaseURL)
}
