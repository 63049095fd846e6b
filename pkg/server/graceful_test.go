package server

import (
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
}

func startServer(t *testing.T, gs *GracefulServer) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- gs.Start() }()

	select {
	case <-gs.Ready():
	case err := <-done:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not become ready")
	}
	return done
}

func TestGracefulServer_ServesAndShutsDown(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), nil)
	done := startServer(t, gs)

	resp, err := http.Get("http://" + gs.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start() = %v, want nil after graceful shutdown", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("IsShuttingDown() = false after shutdown")
	}
}

// TestGracefulServer_ConfigReload tests configuration reload via SIGHUP
func TestGracefulServer_ConfigReload(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), nil)

	var calls atomic.Int32
	gs.SetConfigReloadFunc(func() error {
		calls.Add(1)
		return nil
	})
	done := startServer(t, gs)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Errorf("reload calls = %d, want 1", calls.Load())
	}
	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}

	gs.Shutdown(time.Second)
	<-done
}

func TestGracefulServer_SIGTERM(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), nil)
	gs.SetShutdownTimeout(time.Second)
	done := startServer(t, gs)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to send SIGTERM: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop on SIGTERM")
	}
}

// TestGracefulServer_ReloadConfig tests the ReloadConfig method
func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), nil)

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() without a function = %v", err)
	}

	reloadCalled := false
	gs.SetConfigReloadFunc(func() error {
		reloadCalled = true
		return nil
	})
	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() error = %v", err)
	}
	if !reloadCalled {
		t.Error("Config reload function was not called")
	}
}

// TestGracefulServer_ReloadConfigWithError tests error handling during reload
func TestGracefulServer_ReloadConfigWithError(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), nil)

	want := errors.New("bad document")
	gs.SetConfigReloadFunc(func() error { return want })

	if err := gs.ReloadConfig(); !errors.Is(err, want) {
		t.Errorf("ReloadConfig() error = %v, want %v", err, want)
	}
}
