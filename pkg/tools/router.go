// Package tools exposes the fixed operation catalogue: the router that
// validates and dispatches catalogue operations, and the MCP tool wrappers
// built on top of it.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
	"github.com/addhe/infrabot-nlp/pkg/types"
	"github.com/addhe/infrabot-nlp/pkg/workflow"
)

// paramSpec declares one parameter of a catalogue operation. Validation is
// presence plus Go type; anything beyond that is the handler's concern.
type paramSpec struct {
	Name     string
	Type     string // "string" or "bool"
	Required bool
}

type handlerFunc func(ctx context.Context, gate interfaces.Confirmer, params map[string]interface{}) *types.Result

// operationDef binds a catalogue name to its parameter contract and
// handler.
type operationDef struct {
	Name        string
	Description string
	Params      []paramSpec
	handler     handlerFunc
}

// OperationInfo is the externally visible description of one catalogue
// entry, served by the web API and the agent prompt builder.
type OperationInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"params"`
}

type ParamInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Router owns the operation catalogue. Every dispatch validates the
// parameters against the operation's contract before any service, network,
// or subprocess call happens; violations come back as InvalidArgument.
type Router struct {
	vpcs      interfaces.VPCService
	subnets   interfaces.SubnetService
	projects  interfaces.ProjectService
	gate      interfaces.Confirmer
	timezones map[string]string
	logger    *logging.Logger

	catalogue map[string]operationDef
}

func NewRouter(vpcs interfaces.VPCService, subnets interfaces.SubnetService, projects interfaces.ProjectService, gate interfaces.Confirmer, timezones map[string]string, logger *logging.Logger) *Router {
	r := &Router{
		vpcs:      vpcs,
		subnets:   subnets,
		projects:  projects,
		gate:      gate,
		timezones: timezones,
		logger:    logger,
	}
	r.buildCatalogue()
	return r
}

// Dispatch validates and executes one catalogue operation using the
// router's default confirmation gate.
func (r *Router) Dispatch(ctx context.Context, operation string, params map[string]interface{}) *types.Result {
	return r.DispatchWith(ctx, r.gate, operation, params)
}

// DispatchWith runs an operation against a caller-supplied gate. The web
// front door uses it to carry pre-supplied confirmation answers.
func (r *Router) DispatchWith(ctx context.Context, gate interfaces.Confirmer, operation string, params map[string]interface{}) *types.Result {
	op, ok := r.catalogue[operation]
	if !ok {
		return types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("unknown operation %q; see the operation catalogue", operation), operation)
	}

	if res := validateParams(op, params); res != nil {
		return res
	}

	start := time.Now()
	res := op.handler(ctx, gate, params)
	r.logger.LogDispatch(operation, time.Since(start), res.Success)
	return res
}

// Operations lists the catalogue sorted by name.
func (r *Router) Operations() []OperationInfo {
	infos := make([]OperationInfo, 0, len(r.catalogue))
	for _, op := range r.catalogue {
		info := OperationInfo{Name: op.Name, Description: op.Description}
		for _, p := range op.Params {
			info.Params = append(info.Params, ParamInfo(p))
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func validateParams(op operationDef, params map[string]interface{}) *types.Result {
	for _, spec := range op.Params {
		value, present := params[spec.Name]
		if !present {
			if spec.Required {
				return types.Fail(types.ErrInvalidArgument,
					fmt.Sprintf("%s: required parameter %q is missing", op.Name, spec.Name), op.Name)
			}
			continue
		}
		if !typeMatches(value, spec.Type) {
			return types.Fail(types.ErrInvalidArgument,
				fmt.Sprintf("%s: parameter %q must be a %s", op.Name, spec.Name, spec.Type), op.Name)
		}
	}
	return nil
}

func typeMatches(value interface{}, expected string) bool {
	switch expected {
	case "string":
		_, ok := value.(string)
		return ok
	case "bool":
		_, ok := value.(bool)
		return ok
	}
	return true
}

func stringParam(params map[string]interface{}, name string) string {
	s, _ := params[name].(string)
	return s
}

func boolParam(params map[string]interface{}, name string) bool {
	b, _ := params[name].(bool)
	return b
}

// ========== Catalogue ==========

func (r *Router) buildCatalogue() {
	ops := []operationDef{
		{
			Name:        "gcp.vpc.create",
			Description: "Create a VPC network",
			Params: []paramSpec{
				{"name", "string", true},
				{"project", "string", false},
				{"subnet_mode", "string", false},
				{"routing_mode", "string", false},
				{"description", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.vpcs.CreateVPC(ctx, types.CreateVPCParams{
					Project:     stringParam(p, "project"),
					Name:        stringParam(p, "name"),
					SubnetMode:  stringParam(p, "subnet_mode"),
					RoutingMode: stringParam(p, "routing_mode"),
					Description: stringParam(p, "description"),
				})
			},
		},
		{
			Name:        "gcp.vpc.list",
			Description: "List VPC networks in a project",
			Params:      []paramSpec{{"project", "string", false}},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.vpcs.ListVPCs(ctx, stringParam(p, "project"))
			},
		},
		{
			Name:        "gcp.vpc.get",
			Description: "Describe a single VPC network",
			Params: []paramSpec{
				{"name", "string", true},
				{"project", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.vpcs.GetVPC(ctx, stringParam(p, "project"), stringParam(p, "name"))
			},
		},
		{
			Name:        "gcp.vpc.delete",
			Description: "Delete a VPC network (requires confirmation)",
			Params: []paramSpec{
				{"name", "string", true},
				{"project", "string", false},
			},
			handler: func(ctx context.Context, gate interfaces.Confirmer, p map[string]interface{}) *types.Result {
				name := stringParam(p, "name")
				if !gate.Confirm(fmt.Sprintf("Delete VPC %q?", name)) {
					return types.Fail(types.ErrInvalidArgument,
						fmt.Sprintf("deletion of VPC %q cancelled by operator", name), name)
				}
				return r.vpcs.DeleteVPC(ctx, stringParam(p, "project"), name)
			},
		},
		{
			Name:        "gcp.vpc.deleteCascade",
			Description: "Delete a VPC network together with all its subnets (requires confirmation)",
			Params: []paramSpec{
				{"name", "string", true},
				{"project", "string", false},
				{"confirm_each_subnet", "bool", false},
			},
			handler: func(ctx context.Context, gate interfaces.Confirmer, p map[string]interface{}) *types.Result {
				mode := workflow.ConfirmOnce
				if boolParam(p, "confirm_each_subnet") {
					mode = workflow.ConfirmPerItem
				}
				w := workflow.NewCascadeDelete(r.vpcs, r.subnets, gate, mode, r.logger)
				return w.Run(ctx, stringParam(p, "project"), stringParam(p, "name"))
			},
		},
		{
			Name:        "gcp.subnet.create",
			Description: "Create a subnet in a VPC network",
			Params: []paramSpec{
				{"name", "string", true},
				{"network", "string", true},
				{"region", "string", true},
				{"cidr_range", "string", true},
				{"project", "string", false},
				{"private_google_access", "bool", false},
				{"description", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.subnets.CreateSubnet(ctx, types.CreateSubnetParams{
					Project:             stringParam(p, "project"),
					Network:             stringParam(p, "network"),
					Name:                stringParam(p, "name"),
					Region:              stringParam(p, "region"),
					CidrRange:           stringParam(p, "cidr_range"),
					PrivateGoogleAccess: boolParam(p, "private_google_access"),
					Description:         stringParam(p, "description"),
				})
			},
		},
		{
			Name:        "gcp.subnet.list",
			Description: "List the subnets of a VPC network",
			Params: []paramSpec{
				{"network", "string", true},
				{"project", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.subnets.ListSubnets(ctx, stringParam(p, "project"), stringParam(p, "network"))
			},
		},
		{
			Name:        "gcp.subnet.delete",
			Description: "Delete a subnet (requires confirmation)",
			Params: []paramSpec{
				{"name", "string", true},
				{"region", "string", true},
				{"project", "string", false},
			},
			handler: func(ctx context.Context, gate interfaces.Confirmer, p map[string]interface{}) *types.Result {
				name := stringParam(p, "name")
				if !gate.Confirm(fmt.Sprintf("Delete subnet %q in %s?", name, stringParam(p, "region"))) {
					return types.Fail(types.ErrInvalidArgument,
						fmt.Sprintf("deletion of subnet %q cancelled by operator", name), name)
				}
				return r.subnets.DeleteSubnet(ctx, stringParam(p, "project"), stringParam(p, "region"), name)
			},
		},
		{
			Name:        "gcp.subnet.setPrivateGoogleAccess",
			Description: "Enable or disable Private Google Access on a subnet",
			Params: []paramSpec{
				{"name", "string", true},
				{"region", "string", true},
				{"enabled", "bool", true},
				{"project", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.subnets.SetPrivateGoogleAccess(ctx,
					stringParam(p, "project"), stringParam(p, "region"), stringParam(p, "name"), boolParam(p, "enabled"))
			},
		},
		{
			Name:        "gcp.project.list",
			Description: "List projects, optionally filtered by environment (dev/stg/prod)",
			Params:      []paramSpec{{"environment", "string", false}},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.projects.ListProjects(ctx, stringParam(p, "environment"))
			},
		},
		{
			Name:        "gcp.project.create",
			Description: "Create a new project",
			Params: []paramSpec{
				{"project_id", "string", true},
				{"display_name", "string", false},
			},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.projects.CreateProject(ctx, types.CreateProjectParams{
					ProjectID:   stringParam(p, "project_id"),
					DisplayName: stringParam(p, "display_name"),
				})
			},
		},
		{
			Name:        "gcp.project.delete",
			Description: "Schedule a project for deletion (requires confirmation)",
			Params:      []paramSpec{{"project_id", "string", true}},
			handler: func(ctx context.Context, gate interfaces.Confirmer, p map[string]interface{}) *types.Result {
				id := stringParam(p, "project_id")
				if !gate.Confirm(fmt.Sprintf("Schedule project %q for deletion?", id)) {
					return types.Fail(types.ErrInvalidArgument,
						fmt.Sprintf("deletion of project %q cancelled by operator", id), id)
				}
				return r.projects.DeleteProject(ctx, id)
			},
		},
		{
			Name:        "gcp.project.undelete",
			Description: "Recover a project that is pending deletion",
			Params:      []paramSpec{{"project_id", "string", true}},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.projects.UndeleteProject(ctx, stringParam(p, "project_id"))
			},
		},
		{
			Name:        "shell.execute",
			Description: "Run a shell command on the host",
			Params:      []paramSpec{{"command", "string", true}},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.runShell(ctx, stringParam(p, "command"))
			},
		},
		{
			Name:        "time.now",
			Description: "Report the current time in a city",
			Params:      []paramSpec{{"city", "string", false}},
			handler: func(ctx context.Context, _ interfaces.Confirmer, p map[string]interface{}) *types.Result {
				return r.currentTime(stringParam(p, "city"))
			},
		},
	}

	r.catalogue = make(map[string]operationDef, len(ops))
	for _, op := range ops {
		r.catalogue[op.Name] = op
	}
}

// ========== System Operations ==========

func (r *Router) runShell(ctx context.Context, command string) *types.Result {
	r.logger.WithField("command", command).Info("Executing shell command")

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	errOut := strings.TrimSpace(stderr.String())

	if err != nil {
		cause := errOut
		if cause == "" {
			cause = err.Error()
		}
		return types.Fail(types.ErrUnknown,
			fmt.Sprintf("command failed: %s", cause), command)
	}

	message := "Command completed"
	if out != "" {
		message = out
	}
	return types.Ok(message, map[string]interface{}{"stdout": out, "stderr": errOut})
}

func (r *Router) currentTime(city string) *types.Result {
	if city == "" {
		now := time.Now()
		return types.Ok(
			fmt.Sprintf("The current local time is %s", now.Format("15:04:05 on Monday, 2 January 2006")),
			map[string]interface{}{"time": now.Format(time.RFC3339)})
	}

	zone, ok := r.timezones[strings.ToLower(city)]
	if !ok {
		cities := make([]string, 0, len(r.timezones))
		for c := range r.timezones {
			cities = append(cities, c)
		}
		sort.Strings(cities)
		return types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("no timezone known for %q; supported cities: %s", city, strings.Join(cities, ", ")), city)
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"city": city, "zone": zone}).WithError(err).Error("Timezone lookup failed")
		return types.Fail(types.ErrUnknown,
			fmt.Sprintf("timezone %q could not be loaded: %v", zone, err), city)
	}

	now := time.Now().In(loc)
	return types.Ok(
		fmt.Sprintf("The current time in %s is %s", titleCase(city), now.Format("15:04:05 on Monday, 2 January 2006")),
		map[string]interface{}{"time": now.Format(time.RFC3339), "timezone": zone})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
