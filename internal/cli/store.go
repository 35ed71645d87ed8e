package cli

import (
	"io"
	"strings"

	"github.com/jrsteele09/gymflow/internal/config"
	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/session"
	"github.com/jrsteele09/gymflow/session/filestore"
	sessionrepofakes "github.com/jrsteele09/gymflow/session/repofakes"
	"github.com/jrsteele09/gymflow/session/sqlitestore"
)

// OpenStore returns the session store for backend. The closer is nil for backends that
// hold no resources.
func OpenStore(backend, path string) (session.Store, io.Closer, error) {
	switch backend {
	case config.SessionBackendFile, "":
		return filestore.New(path), nil, nil
	case config.SessionBackendSQLite:
		store, err := sqlitestore.New(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open session database")
		}
		return store, store, nil
	case config.SessionBackendMemory:
		return sessionrepofakes.NewFakeSessionStore(), nil, nil
	}
	return nil, nil, errors.Wrapf(errors.ErrValidation, "unknown session backend %q", backend)
}

func trimURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
