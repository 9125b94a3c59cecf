// Package datastream provides the data stream administration commands:
// create, rollover, clean, and list-backing-indices.
package datastream

import (
	"fmt"
	"time"

	"github.com/streamkeeper/dsadmin/cmd/portforward"
	"github.com/streamkeeper/dsadmin/internal/config"
	"github.com/streamkeeper/dsadmin/internal/elasticsearch"
	"github.com/streamkeeper/dsadmin/internal/k8s"
	"github.com/streamkeeper/dsadmin/internal/logger"
)

// connection bundles the cluster client with the cleanup of an optional
// port-forward tunnel
type connection struct {
	Client *elasticsearch.Client

	cleanup func()
}

// Close tears down the tunnel, if one was established
func (c *connection) Close() {
	c.cleanup()
}

// connect resolves the configuration, optionally establishes a Kubernetes
// port-forward, builds the cluster client, and verifies connectivity.
// No operation runs without a successful connectivity check.
func connect(cliCtx *config.Context, log *logger.Logger) (*connection, error) {
	cfg, err := config.LoadConfig(cliCtx.Config.ConfigFile, cliCtx.Config.Overrides())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	address := cfg.Elasticsearch.URL
	cleanup := func() {}

	if cfg.Tunnel != nil {
		k8sClient, err := k8s.NewClient(cfg.Tunnel.Kubeconfig, cliCtx.Config.Debug)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
		}

		pf, err := portforward.SetupPortForward(k8sClient, cfg.Tunnel.Namespace, cfg.Tunnel.Service, cfg.Tunnel.LocalPort, cfg.Tunnel.RemotePort, log)
		if err != nil {
			return nil, err
		}
		cleanup = func() { close(pf.StopChan) }
		address = fmt.Sprintf("http://localhost:%d", pf.LocalPort)
	}

	client, err := elasticsearch.NewClient(elasticsearch.ClientConfig{
		Address:               address,
		Username:              cfg.Elasticsearch.Username,
		Password:              cfg.Elasticsearch.Password,
		InsecureSkipTLSVerify: cfg.Elasticsearch.InsecureSkipTLSVerify,
		Timeout:               time.Duration(cfg.Elasticsearch.TimeoutSeconds) * time.Second,
		MaxRetries:            cfg.Elasticsearch.MaxRetries,
	}, log)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create cluster client: %w", err)
	}

	if err := client.CheckConnection(); err != nil {
		cleanup()
		return nil, err
	}

	return &connection{Client: client, cleanup: cleanup}, nil
}
