// Copyright © 2018 One Concern

package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ListenAndServe serves handler on addr until ctx is done, then shuts down gracefully.
// When ready is not nil, it receives the address actually listened on.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger, ready chan<- string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Newf("cannot listen on %s: %v", addr, err).Wrap(err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(listener)
	}()
	logger.Info("serving", zap.String("address", listener.Addr().String()))
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		err = srv.Shutdown(shutdownCtx)
		<-errc
		return err
	}
}
