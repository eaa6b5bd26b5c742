package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/restcontract/api-contract-tests/framework"
)

const localTargetStartTimeout = time.Second * 10

// LocalTarget is an HTTP server on a loopback port, used for running the tests against an
// in-process implementation of the API instead of a remote one.
type LocalTarget struct {
	server *http.Server
	url    string
	logger framework.Logger
}

// StartLocalTarget serves handler on an ephemeral loopback port, and does not return until the
// server is accepting requests.
func StartLocalTarget(handler http.Handler, logger framework.Logger) (*LocalTarget, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("cannot listen on loopback port: %w", err)
	}
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "HEAD" && r.URL.Path == "/" {
				w.WriteHeader(200) // we use this to test whether our own listener is active yet
				return
			}
			handler.ServeHTTP(w, r)
		}),
		ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
	}
	lt := &LocalTarget{
		server: server,
		url:    "http://" + listener.Addr().String(),
		logger: logger,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Local target server stopped: %s", err)
		}
	}()

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(localTargetStartTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	client := &http.Client{Timeout: time.Second}
	for {
		select {
		case <-deadline.C:
			_ = server.Close()
			return nil, fmt.Errorf("could not detect local target listener at %s", lt.url)
		case <-ticker.C:
			resp, err := client.Head(lt.url)
			if err == nil {
				_ = resp.Body.Close()
				logger.Printf("Local target is listening at %s", lt.url)
				return lt, nil
			}
		}
	}
}

// URL returns the base URL of the server.
func (lt *LocalTarget) URL() string {
	return lt.url
}

// Close shuts down the server, waiting briefly for active requests to finish.
func (lt *LocalTarget) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return lt.server.Shutdown(ctx)
}
