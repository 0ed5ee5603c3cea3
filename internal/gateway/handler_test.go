package gateway

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coopco/treant/internal/discord"
)

type fakeRouter struct {
	resp   *discord.Response
	called bool
	got    *discord.Interaction
}

func (f *fakeRouter) Dispatch(ctx context.Context, in *discord.Interaction) *discord.Response {
	f.called = true
	f.got = in
	return f.resp
}

type testGate struct {
	pub    ed25519.PublicKey
	priv   ed25519.PrivateKey
	router *fakeRouter
	h      *Handler
}

func newTestGate(t *testing.T, resp *discord.Response) *testGate {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	router := &fakeRouter{resp: resp}
	h := NewHandler(func(ctx context.Context) (ed25519.PublicKey, error) {
		return pub, nil
	}, router)
	return &testGate{pub: pub, priv: priv, router: router, h: h}
}

func (g *testGate) signedRequest(body []byte) *http.Request {
	ts := "1700000000"
	sig := ed25519.Sign(g.priv, append([]byte(ts), body...))
	req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", ts)
	return req
}

func TestRejectsBeforeVerification(t *testing.T) {
	body := []byte(`{"type":2,"data":{"name":"treant"}}`)

	tests := []struct {
		name string
		req  func(g *testGate) *http.Request
	}{
		{"missing all headers", func(g *testGate) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader(body))
		}},
		{"missing signature", func(g *testGate) *http.Request {
			req := g.signedRequest(body)
			req.Header.Del("X-Signature-Ed25519")
			return req
		}},
		{"missing timestamp", func(g *testGate) *http.Request {
			req := g.signedRequest(body)
			req.Header.Del("X-Signature-Timestamp")
			return req
		}},
		{"empty body", func(g *testGate) *http.Request {
			return g.signedRequest(nil)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGate(t, discord.MessageResponse("hi"))
			rec := httptest.NewRecorder()
			g.h.ServeHTTP(rec, tc.req(g))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if g.router.called {
				t.Error("handler logic must not run on auth rejection")
			}
		})
	}
}

func TestRejectsBadSignature(t *testing.T) {
	g := newTestGate(t, discord.MessageResponse("hi"))
	req := g.signedRequest([]byte(`{"type":2}`))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))

	rec := httptest.NewRecorder()
	g.h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if g.router.called {
		t.Error("handler logic must not run on bad signature")
	}
}

func TestHandshakeAlwaysPong(t *testing.T) {
	bodies := []string{
		`{"type":1}`,
		`{"type":1,"data":{"name":"treant","options":[{"name":"gold"}]},"guild_id":"g1","token":"tok"}`,
	}

	for _, body := range bodies {
		g := newTestGate(t, nil)
		rec := httptest.NewRecorder()
		g.h.ServeHTTP(rec, g.signedRequest([]byte(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp discord.Response
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Type != discord.ResponsePong {
			t.Errorf("response type = %d, want pong", resp.Type)
		}
		if g.router.called {
			t.Error("handshake must terminate before dispatch")
		}
	}
}

func TestUnknownCommand400(t *testing.T) {
	g := newTestGate(t, nil) // router returns nil
	rec := httptest.NewRecorder()
	g.h.ServeHTTP(rec, g.signedRequest([]byte(`{"type":2,"data":{"name":"mystery"}}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !g.router.called {
		t.Error("dispatch should have been attempted")
	}
}

func TestDispatchesVerifiedCommand(t *testing.T) {
	g := newTestGate(t, discord.DeferredResponse())
	body := []byte(`{"type":2,"application_id":"app","token":"tok","data":{"name":"treant","options":[{"name":"gold","type":1}]}}`)

	rec := httptest.NewRecorder()
	g.h.ServeHTTP(rec, g.signedRequest(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp discord.Response
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Type != discord.ResponseDeferredMessage {
		t.Errorf("response type = %d, want deferred", resp.Type)
	}
	if g.router.got.Data.Name != "treant" {
		t.Errorf("router saw %q", g.router.got.Data.Name)
	}
}

func TestPublicKeyFailure500(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(rand.Reader)
	_ = pub
	h := NewHandler(func(ctx context.Context) (ed25519.PublicKey, error) {
		return nil, context.DeadlineExceeded
	}, &fakeRouter{})

	body := []byte(`{"type":1}`)
	ts := "1700000000"
	sig := ed25519.Sign(priv, append([]byte(ts), body...))
	req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", ts)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
