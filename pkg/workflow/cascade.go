// Package workflow contains the multi-step resource lifecycle
// orchestrations that compose the single-resource services. The only
// workflow today is the cascading VPC deletion.
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

// State names the phases of a cascade run. A workflow is ephemeral: it
// lives for a single call chain and its state is only read afterwards to
// build the report.
type State string

const (
	StateInit            State = "INIT"
	StateEnumerated      State = "ENUMERATED"
	StateConfirmed       State = "CONFIRMED"
	StateDeletingSubnets State = "DELETING_SUBNETS"
	StateSubnetsDone     State = "SUBNETS_DONE"
	StateConfirmedVPC    State = "CONFIRMED_VPC"
	StateDeletingVPC     State = "DELETING_VPC"
	StateCompleted       State = "COMPLETED"
	StateAborted         State = "ABORTED"
)

// ConfirmMode selects how the confirmation gate is consulted.
type ConfirmMode string

const (
	// ConfirmOnce asks once for the whole cascade, then once more before
	// the VPC itself is removed.
	ConfirmOnce ConfirmMode = "once"
	// ConfirmPerItem additionally asks before every individual subnet.
	ConfirmPerItem ConfirmMode = "per-item"
)

// SubnetOutcome records what happened to one subnet during the cascade.
type SubnetOutcome string

const (
	OutcomeDeleted SubnetOutcome = "deleted"
	OutcomeFailed  SubnetOutcome = "failed"
	OutcomeDenied  SubnetOutcome = "denied"
	OutcomeSkipped SubnetOutcome = "skipped"
)

// SubnetStep is one entry in the cascade report.
type SubnetStep struct {
	Subnet  *types.GCPResource `json:"subnet"`
	Outcome SubnetOutcome      `json:"outcome"`
	Detail  string             `json:"detail,omitempty"`
}

// CascadeDelete orchestrates deleting a VPC together with its subnets.
// Subnets are enumerated and removed first; the VPC delete is only issued
// when every subnet was deleted successfully.
type CascadeDelete struct {
	ID      string
	Mode    ConfirmMode
	state   State
	vpcs    interfaces.VPCService
	subnets interfaces.SubnetService
	gate    interfaces.Confirmer
	logger  *logging.Logger

	steps []SubnetStep
}

func NewCascadeDelete(vpcs interfaces.VPCService, subnets interfaces.SubnetService, gate interfaces.Confirmer, mode ConfirmMode, logger *logging.Logger) *CascadeDelete {
	if mode == "" {
		mode = ConfirmOnce
	}
	return &CascadeDelete{
		ID:      uuid.New().String(),
		Mode:    mode,
		state:   StateInit,
		vpcs:    vpcs,
		subnets: subnets,
		gate:    gate,
		logger:  logger,
	}
}

// State returns the phase the workflow ended in.
func (w *CascadeDelete) State() State { return w.state }

// Steps returns the per-subnet report.
func (w *CascadeDelete) Steps() []SubnetStep { return w.steps }

// Run executes the cascade for one VPC and returns the aggregated report.
func (w *CascadeDelete) Run(ctx context.Context, project, network string) *types.Result {
	log := w.logger.WithFields(logrus.Fields{
		"workflowId": w.ID,
		"project":    project,
		"network":    network,
	})
	log.Info("Starting cascading VPC deletion")

	subnets, res := w.enumerate(ctx, project, network)
	if res != nil {
		return w.abort(network, res)
	}
	w.state = StateEnumerated

	if len(subnets) > 0 {
		prompt := fmt.Sprintf("Delete VPC %q and its %d subnet(s)?", network, len(subnets))
		if !w.gate.Confirm(prompt) {
			return w.abort(network, types.Fail(types.ErrInvalidArgument,
				fmt.Sprintf("deletion of VPC %q cancelled by operator", network), network))
		}
	}
	w.state = StateConfirmed

	w.state = StateDeletingSubnets
	failed := w.deleteSubnets(ctx, project, network, subnets)
	w.state = StateSubnetsDone

	if len(failed) > 0 {
		return w.abort(network, types.FailWith(
			fmt.Sprintf("VPC %q not deleted: %d of %d subnet(s) could not be removed", network, len(failed), len(subnets)),
			failed...))
	}

	prompt := fmt.Sprintf("All subnets removed. Delete VPC %q itself?", network)
	if len(subnets) == 0 {
		prompt = fmt.Sprintf("Delete VPC %q? (no subnets found)", network)
	}
	if !w.gate.Confirm(prompt) {
		return w.abort(network, types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("deletion of VPC %q cancelled by operator after subnet removal", network), network))
	}
	w.state = StateConfirmedVPC

	w.state = StateDeletingVPC
	vpcRes := w.vpcs.DeleteVPC(ctx, project, network)
	if !vpcRes.Success {
		return w.abort(network, vpcRes)
	}

	w.state = StateCompleted
	log.Info("Cascading VPC deletion completed")

	out := types.Ok(
		fmt.Sprintf("VPC %q and %d subnet(s) deleted", network, len(subnets)),
		w.reportData(network, true))
	return out
}

func (w *CascadeDelete) enumerate(ctx context.Context, project, network string) ([]*types.GCPResource, *types.Result) {
	res := w.subnets.ListSubnets(ctx, project, network)
	if !res.Success {
		return nil, res
	}
	subnets, _ := res.Data["subnets"].([]*types.GCPResource)
	return subnets, nil
}

// deleteSubnets walks the enumeration in order. A per-item denial marks
// the subnet denied and, like a failure, blocks the VPC deletion; the
// remaining subnets are still attempted so the report is complete.
func (w *CascadeDelete) deleteSubnets(ctx context.Context, project, network string, subnets []*types.GCPResource) []types.ErrorDetail {
	var failed []types.ErrorDetail

	for _, subnet := range subnets {
		if w.Mode == ConfirmPerItem {
			prompt := fmt.Sprintf("Delete subnet %q in %s?", subnet.Name, subnet.Region)
			if !w.gate.Confirm(prompt) {
				w.steps = append(w.steps, SubnetStep{Subnet: subnet, Outcome: OutcomeDenied, Detail: "operator denied deletion"})
				failed = append(failed, types.ErrorDetail{
					Code:     types.ErrInvalidArgument,
					Message:  fmt.Sprintf("subnet %q deletion denied by operator", subnet.Name),
					Resource: subnet.Name,
				})
				continue
			}
		}

		res := w.subnets.DeleteSubnet(ctx, project, subnet.Region, subnet.Name)
		if !res.Success {
			w.logger.WithFields(logrus.Fields{
				"workflowId": w.ID,
				"subnet":     subnet.Name,
			}).Warn("Subnet deletion failed, VPC deletion will be blocked")
			w.steps = append(w.steps, SubnetStep{Subnet: subnet, Outcome: OutcomeFailed, Detail: res.Message})
			failed = append(failed, res.Errors...)
			continue
		}

		w.steps = append(w.steps, SubnetStep{Subnet: subnet, Outcome: OutcomeDeleted})
	}

	return failed
}

func (w *CascadeDelete) abort(network string, res *types.Result) *types.Result {
	w.state = StateAborted
	res.Data = w.reportData(network, false)
	w.logger.WithFields(logrus.Fields{
		"workflowId": w.ID,
		"state":      w.state,
	}).Warn("Cascading deletion aborted")
	return res
}

func (w *CascadeDelete) reportData(network string, vpcDeleted bool) map[string]interface{} {
	return map[string]interface{}{
		"workflowId": w.ID,
		"network":    network,
		"vpcDeleted": vpcDeleted,
		"steps":      w.steps,
		"state":      string(w.state),
	}
}
