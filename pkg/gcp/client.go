package gcp

import (
	"context"
	"fmt"
	"strings"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/proto"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
)

// Client bundles the Google Cloud control-plane clients used by the
// resource operations, plus the dual-path executor shared by all of them.
// Configuration is explicit: default project and credentials come from the
// config passed at construction, never from ambient process state at call
// time.
type Client struct {
	cfg      *config.GCPConfig
	networks *compute.NetworksClient
	subnets  *compute.SubnetworksClient
	projects *resourcemanager.ProjectsClient
	executor *Executor
	logger   *logging.Logger
}

// NewClient builds the API clients and the CLI fallback runner. gcloudCfg
// may be nil; the binary then comes from cfg with no global flags.
func NewClient(ctx context.Context, cfg *config.GCPConfig, gcloudCfg *config.GcloudTemplateConfig, logger *logging.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	networks, err := compute.NewNetworksRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create networks client: %w", err)
	}

	subnets, err := compute.NewSubnetworksRESTClient(ctx, opts...)
	if err != nil {
		networks.Close()
		return nil, fmt.Errorf("failed to create subnetworks client: %w", err)
	}

	projects, err := resourcemanager.NewProjectsClient(ctx, opts...)
	if err != nil {
		networks.Close()
		subnets.Close()
		return nil, fmt.Errorf("failed to create projects client: %w", err)
	}

	binary := cfg.GcloudBinary
	var globalFlags []string
	if gcloudCfg != nil {
		if gcloudCfg.Binary != "" {
			binary = gcloudCfg.Binary
		}
		globalFlags = gcloudCfg.GlobalFlags
	}
	runner := NewGcloudRunner(binary, globalFlags, logger)

	return &Client{
		cfg:      cfg,
		networks: networks,
		subnets:  subnets,
		projects: projects,
		executor: NewExecutor(runner, logger),
		logger:   logger,
	}, nil
}

// Close releases the underlying API clients.
func (c *Client) Close() error {
	var firstErr error
	for _, closer := range []interface{ Close() error }{c.networks, c.subnets, c.projects} {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HealthCheck verifies Google Cloud connectivity against the default
// project.
func (c *Client) HealthCheck(ctx context.Context) error {
	it := c.networks.List(ctx, &computepb.ListNetworksRequest{
		Project:    c.cfg.Project,
		MaxResults: proto.Uint32(1),
	})
	if _, err := it.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("GCP health check failed: %w", err)
	}
	return nil
}

// DefaultProject returns the configured default project ID.
func (c *Client) DefaultProject() string {
	return c.cfg.Project
}

// DefaultRegion returns the configured default region.
func (c *Client) DefaultRegion() string {
	return c.cfg.Region
}

func (c *Client) projectOrDefault(project string) string {
	if project != "" {
		return project
	}
	return c.cfg.Project
}

// statusBlocksDelete reports whether a provider-reported status makes a
// delete call redundant or invalid. Compute resources report READY when
// usable, projects report ACTIVE; anything else is already on its way out
// or not in a deletable state.
func statusBlocksDelete(status string) bool {
	switch strings.ToUpper(status) {
	case "", "ACTIVE", "READY":
		return false
	}
	return true
}
