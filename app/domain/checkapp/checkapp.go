// Package checkapp maintains the app layer api for the health checks.
package checkapp

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/sdk/sqldb"
	"github.com/essentialsgg/relay/business/sdk/web"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// app manages the set of app layer api functions for the check domain.
type app struct {
	build string
	log   *logger.Logger
	db    *sqlx.DB
}

// newApp constructs a check app API for use.
func newApp(build string, log *logger.Logger, db *sqlx.DB) *app {
	return &app{
		build: build,
		log:   log,
		db:    db,
	}
}

// readiness checks if the persistence backend is ready and accepting
// requests. With the file backend there is nothing external to probe.
func (a *app) readiness(ctx context.Context, r *http.Request) web.Encoder {
	if a.db != nil {
		if err := sqldb.StatusCheck(ctx, a.db); err != nil {
			a.log.Info(ctx, "readiness failure", "err", err)
			return errs.New(errs.Internal, err)
		}
	}

	return Status{Status: "OK"}
}

// liveness returns simple status info if the service is alive. If the app is
// deployed to a Kubernetes cluster, it will also return pod, node, and
// namespace details via the Downward API. The Kubernetes environment
// variables need to be set within your Pod/Deployment manifest.
func (a *app) liveness(ctx context.Context, r *http.Request) web.Encoder {
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	return Info{
		Status:     "up",
		Build:      a.build,
		Host:       host,
		Name:       os.Getenv("KUBERNETES_NAME"),
		PodIP:      os.Getenv("KUBERNETES_POD_IP"),
		Node:       os.Getenv("KUBERNETES_NODE_NAME"),
		Namespace:  os.Getenv("KUBERNETES_NAMESPACE"),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}
}
