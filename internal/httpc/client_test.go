package httpc

import (
	"net/http"
	"testing"
	"time"
)

func TestSharedClientHasTimeout(t *testing.T) {
	if Client.Timeout != DefaultTimeout {
		t.Errorf("expected shared client timeout %v, got %v", DefaultTimeout, Client.Timeout)
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.Transport)
	}
	if tr.TLSHandshakeTimeout == 0 || tr.IdleConnTimeout == 0 {
		t.Error("expected bounded TLS and idle timeouts")
	}
}
