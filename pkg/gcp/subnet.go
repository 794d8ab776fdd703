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

	"github.com/sirupsen/logrus"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

// ========== Subnet Operations ==========

// CreateSubnet creates a custom subnet within a VPC network.
func (c *Client) CreateSubnet(ctx context.Context, params types.CreateSubnetParams) *types.Result {
	project := c.projectOrDefault(params.Project)
	if params.Name == "" || params.Network == "" || params.Region == "" || params.CidrRange == "" {
		return types.Fail(types.ErrInvalidArgument,
			"subnet name, network, region and CIDR range are required", params.Name)
	}

	op := Operation{Name: "gcp.subnet.create", Resource: params.Name}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		subnet := &computepb.Subnetwork{
			Name:                  proto.String(params.Name),
			IpCidrRange:           proto.String(params.CidrRange),
			Network:               proto.String(networkSelfLink(project, params.Network)),
			PrivateIpGoogleAccess: proto.Bool(params.PrivateGoogleAccess),
		}
		if params.Description != "" {
			subnet.Description = proto.String(params.Description)
		}

		lro, err := c.subnets.Insert(ctx, &computepb.InsertSubnetworkRequest{
			Project:            project,
			Region:             params.Region,
			SubnetworkResource: subnet,
		})
		if err != nil {
			return nil, err
		}
		if err := lro.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.WithFields(logrus.Fields{
			"subnetName": params.Name,
			"network":    params.Network,
			"region":     params.Region,
		}).Info("Subnet created")

		resource := &types.GCPResource{
			Type:   types.ResourceTypeSubnet,
			ID:     params.Name,
			Name:   params.Name,
			Region: params.Region,
			Metadata: map[string]interface{}{
				"project":             project,
				"network":             params.Network,
				"cidrRange":           params.CidrRange,
				"privateGoogleAccess": params.PrivateGoogleAccess,
			},
			LastSeen: time.Now(),
		}
		return map[string]interface{}{"resource": resource, "subnetName": params.Name}, nil
	}

	cliArgs := []string{
		"compute", "networks", "subnets", "create", params.Name,
		"--project=" + project,
		"--network=" + params.Network,
		"--region=" + params.Region,
		"--range=" + params.CidrRange,
	}
	if params.PrivateGoogleAccess {
		cliArgs = append(cliArgs, "--enable-private-ip-google-access")
	}
	if params.Description != "" {
		cliArgs = append(cliArgs, "--description="+params.Description)
	}

	res := c.executor.Execute(ctx, op, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Subnet %q created in network %q (region %s)",
		params.Name, params.Network, params.Region))
}

// ListSubnets lists subnets across all regions, optionally filtered to one
// VPC network. Listed order is the provider's aggregated order and is the
// order cascading deletion walks them in.
func (c *Client) ListSubnets(ctx context.Context, project, network string) *types.Result {
	project = c.projectOrDefault(project)
	op := Operation{Name: "gcp.subnet.list", Resource: project}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		it := c.subnets.AggregatedList(ctx, &computepb.AggregatedListSubnetworksRequest{
			Project: project,
		})

		var resources []*types.GCPResource
		for {
			pair, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, err
			}
			for _, subnet := range pair.Value.GetSubnetworks() {
				if network != "" && !strings.HasSuffix(subnet.GetNetwork(), "/networks/"+network) {
					continue
				}
				resources = append(resources, c.convertSubnet(subnet, project))
			}
		}

		return map[string]interface{}{"subnets": resources, "count": len(resources)}, nil
	}

	res := c.executor.Execute(ctx, op, apiCall, nil)
	if res.Success {
		count, _ := res.Data["count"].(int)
		if network != "" {
			res.Message = fmt.Sprintf("Found %d subnets in VPC network %q (project %q)", count, network, project)
		} else {
			res.Message = fmt.Sprintf("Found %d subnets in project %q", count, project)
		}
	}
	return res
}

// DeleteSubnet deletes a subnet. A subnet already in a non-READY state
// short-circuits without issuing the delete call.
func (c *Client) DeleteSubnet(ctx context.Context, project, region, name string) *types.Result {
	project = c.projectOrDefault(project)
	if name == "" || region == "" {
		return types.Fail(types.ErrInvalidArgument, "subnet name and region are required", name)
	}

	op := Operation{Name: "gcp.subnet.delete", Resource: name}

	lookup := func(ctx context.Context) (string, error) {
		subnet, err := c.subnets.Get(ctx, &computepb.GetSubnetworkRequest{
			Project:    project,
			Region:     region,
			Subnetwork: name,
		})
		if err != nil {
			return "", err
		}
		return subnet.GetState(), nil
	}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		lro, err := c.subnets.Delete(ctx, &computepb.DeleteSubnetworkRequest{
			Project:    project,
			Region:     region,
			Subnetwork: name,
		})
		if err != nil {
			return nil, err
		}
		if err := lro.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.WithFields(logrus.Fields{
			"subnetName": name,
			"region":     region,
		}).Info("Subnet deleted")
		return map[string]interface{}{"subnetName": name, "region": region}, nil
	}

	cliArgs := []string{
		"compute", "networks", "subnets", "delete", name,
		"--project=" + project,
		"--region=" + region,
		"--quiet",
	}

	res := c.executor.deleteWithGate(ctx, op, "subnet", lookup, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Subnet %q deleted from region %s", name, region))
}

// SetPrivateGoogleAccess toggles private Google access on a subnet. The
// patch requires the subnet's current fingerprint, fetched immediately
// before the mutating call; a stale fingerprint classifies as Transient
// and escalates to the CLI path, which re-reads it.
func (c *Client) SetPrivateGoogleAccess(ctx context.Context, project, region, name string, enabled bool) *types.Result {
	project = c.projectOrDefault(project)
	if name == "" || region == "" {
		return types.Fail(types.ErrInvalidArgument, "subnet name and region are required", name)
	}

	op := Operation{Name: "gcp.subnet.setPrivateGoogleAccess", Resource: name}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		subnet, err := c.subnets.Get(ctx, &computepb.GetSubnetworkRequest{
			Project:    project,
			Region:     region,
			Subnetwork: name,
		})
		if err != nil {
			return nil, err
		}

		if subnet.GetPrivateIpGoogleAccess() == enabled {
			return map[string]interface{}{
				"subnetName":          name,
				"privateGoogleAccess": enabled,
				"alreadySet":          true,
			}, nil
		}

		patch := &computepb.Subnetwork{
			PrivateIpGoogleAccess: proto.Bool(enabled),
			Fingerprint:           subnet.Fingerprint,
		}
		lro, err := c.subnets.Patch(ctx, &computepb.PatchSubnetworkRequest{
			Project:            project,
			Region:             region,
			Subnetwork:         name,
			SubnetworkResource: patch,
		})
		if err != nil {
			return nil, err
		}
		if err := lro.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.WithFields(logrus.Fields{
			"subnetName":          name,
			"region":              region,
			"privateGoogleAccess": enabled,
		}).Info("Subnet private Google access updated")
		return map[string]interface{}{"subnetName": name, "privateGoogleAccess": enabled}, nil
	}

	flag := "--enable-private-ip-google-access"
	if !enabled {
		flag = "--no-enable-private-ip-google-access"
	}
	cliArgs := []string{
		"compute", "networks", "subnets", "update", name,
		"--project=" + project,
		"--region=" + region,
		flag,
	}

	verb := "enabled"
	if !enabled {
		verb = "disabled"
	}
	res := c.executor.Execute(ctx, op, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Private Google access %s for subnet %q in region %s", verb, name, region))
}

// convertSubnet converts a compute Subnetwork to our internal resource
// representation, preserving the provider-reported state.
func (c *Client) convertSubnet(subnet *computepb.Subnetwork, project string) *types.GCPResource {
	id := subnet.GetName()
	if subnet.GetId() != 0 {
		id = strconv.FormatUint(subnet.GetId(), 10)
	}

	return &types.GCPResource{
		Type:   types.ResourceTypeSubnet,
		ID:     id,
		Name:   subnet.GetName(),
		Status: subnet.GetState(),
		Region: lastPathSegment(subnet.GetRegion()),
		Metadata: map[string]interface{}{
			"project":             project,
			"network":             lastPathSegment(subnet.GetNetwork()),
			"cidrRange":           subnet.GetIpCidrRange(),
			"privateGoogleAccess": subnet.GetPrivateIpGoogleAccess(),
		},
		LastSeen: time.Now(),
	}
}

func networkSelfLink(project, network string) string {
	return fmt.Sprintf("projects/%s/global/networks/%s", project, network)
}

func lastPathSegment(selfLink string) string {
	if selfLink == "" {
		return ""
	}
	parts := strings.Split(selfLink, "/")
	return parts[len(parts)-1]
}
