package gcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/proto"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

// ========== VPC Network Operations ==========

// CreateVPC creates a new VPC network in the given project.
func (c *Client) CreateVPC(ctx context.Context, params types.CreateVPCParams) *types.Result {
	project := c.projectOrDefault(params.Project)
	if params.Name == "" {
		return types.Fail(types.ErrInvalidArgument, "VPC network name is required", "")
	}

	autoSubnets := params.SubnetMode == "" || strings.EqualFold(params.SubnetMode, "auto")
	routingMode := "GLOBAL"
	if strings.EqualFold(params.RoutingMode, "regional") {
		routingMode = "REGIONAL"
	}

	op := Operation{Name: "gcp.vpc.create", Resource: params.Name}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		network := &computepb.Network{
			Name:                  proto.String(params.Name),
			AutoCreateSubnetworks: proto.Bool(autoSubnets),
			RoutingConfig: &computepb.NetworkRoutingConfig{
				RoutingMode: proto.String(routingMode),
			},
		}
		if params.Description != "" {
			network.Description = proto.String(params.Description)
		}

		lro, err := c.networks.Insert(ctx, &computepb.InsertNetworkRequest{
			Project:         project,
			NetworkResource: network,
		})
		if err != nil {
			return nil, err
		}
		if err := lro.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.WithField("vpcName", params.Name).Info("VPC network created")

		resource := &types.GCPResource{
			Type: types.ResourceTypeVPC,
			ID:   params.Name,
			Name: params.Name,
			Metadata: map[string]interface{}{
				"project":     project,
				"subnetMode":  subnetModeString(autoSubnets),
				"routingMode": routingMode,
			},
			LastSeen: time.Now(),
		}
		return map[string]interface{}{"resource": resource, "vpcName": params.Name}, nil
	}

	cliArgs := []string{
		"compute", "networks", "create", params.Name,
		"--project=" + project,
		"--subnet-mode=" + subnetModeString(autoSubnets),
		"--bgp-routing-mode=" + strings.ToLower(routingMode),
	}
	if params.Description != "" {
		cliArgs = append(cliArgs, "--description="+params.Description)
	}

	res := c.executor.Execute(ctx, op, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("VPC network %q created in project %q", params.Name, project))
}

// ListVPCs lists all VPC networks in a project. Listing is API-only: there
// is no CLI fallback because parsing gcloud output is strictly worse than
// the structured path.
func (c *Client) ListVPCs(ctx context.Context, project string) *types.Result {
	project = c.projectOrDefault(project)
	op := Operation{Name: "gcp.vpc.list", Resource: project}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		it := c.networks.List(ctx, &computepb.ListNetworksRequest{Project: project})

		var resources []*types.GCPResource
		for {
			network, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, err
			}
			resources = append(resources, c.convertNetwork(network, project))
		}

		return map[string]interface{}{"vpcs": resources, "count": len(resources)}, nil
	}

	res := c.executor.Execute(ctx, op, apiCall, nil)
	if res.Success {
		count, _ := res.Data["count"].(int)
		res.Message = fmt.Sprintf("Found %d VPC networks in project %q", count, project)
	}
	return res
}

// GetVPC retrieves a single VPC network by name.
func (c *Client) GetVPC(ctx context.Context, project, name string) *types.Result {
	project = c.projectOrDefault(project)
	if name == "" {
		return types.Fail(types.ErrInvalidArgument, "VPC network name is required", "")
	}

	op := Operation{Name: "gcp.vpc.get", Resource: name}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		network, err := c.networks.Get(ctx, &computepb.GetNetworkRequest{
			Project: project,
			Network: name,
		})
		if err != nil {
			return nil, err
		}
		resource := c.convertNetwork(network, project)
		return map[string]interface{}{"resource": resource}, nil
	}

	res := c.executor.Execute(ctx, op, apiCall, nil)
	return successMessage(res, fmt.Sprintf("VPC network %q found in project %q", name, project))
}

// DeleteVPC deletes a VPC network. The network must exist and must not be
// in a terminal status; the check issues no delete call when it fails.
func (c *Client) DeleteVPC(ctx context.Context, project, name string) *types.Result {
	project = c.projectOrDefault(project)
	if name == "" {
		return types.Fail(types.ErrInvalidArgument, "VPC network name is required", "")
	}

	op := Operation{Name: "gcp.vpc.delete", Resource: name}

	// Networks report no lifecycle status, so the gate reduces to an
	// existence check.
	lookup := func(ctx context.Context) (string, error) {
		_, err := c.networks.Get(ctx, &computepb.GetNetworkRequest{
			Project: project,
			Network: name,
		})
		return "", err
	}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		lro, err := c.networks.Delete(ctx, &computepb.DeleteNetworkRequest{
			Project: project,
			Network: name,
		})
		if err != nil {
			return nil, err
		}
		if err := lro.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.WithField("vpcName", name).Info("VPC network deleted")
		return map[string]interface{}{"vpcName": name}, nil
	}

	cliArgs := []string{
		"compute", "networks", "delete", name,
		"--project=" + project,
		"--quiet",
	}

	res := c.executor.deleteWithGate(ctx, op, "VPC network", lookup, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("VPC network %q deleted from project %q", name, project))
}

// convertNetwork converts a compute Network to our internal resource
// representation. Networks carry no provider lifecycle status, so Status
// stays empty rather than being invented.
func (c *Client) convertNetwork(network *computepb.Network, project string) *types.GCPResource {
	metadata := map[string]interface{}{
		"project":     project,
		"subnetMode":  subnetModeString(network.GetAutoCreateSubnetworks()),
		"routingMode": network.GetRoutingConfig().GetRoutingMode(),
		"subnetworks": network.GetSubnetworks(),
	}
	if desc := network.GetDescription(); desc != "" {
		metadata["description"] = desc
	}

	id := network.GetName()
	if network.GetId() != 0 {
		id = strconv.FormatUint(network.GetId(), 10)
	}

	return &types.GCPResource{
		Type:     types.ResourceTypeVPC,
		ID:       id,
		Name:     network.GetName(),
		Metadata: metadata,
		LastSeen: time.Now(),
	}
}

func subnetModeString(auto bool) string {
	if auto {
		return "auto"
	}
	return "custom"
}
