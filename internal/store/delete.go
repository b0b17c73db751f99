package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/casehistory/internal/history"
)

// DeleteMilestone removes one milestone by id. A missing row is a no-op.
func (s *Store) DeleteMilestone(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM historic_milestones WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete milestone %q: %w", id, err)
	}
	return nil
}

// BulkDeleteMilestones removes every milestone owned by a case instance in
// caseInstanceIDs.
func (s *Store) BulkDeleteMilestones(ctx context.Context, caseInstanceIDs []string) error {
	if err := s.execIn(ctx, `DELETE FROM historic_milestones WHERE case_instance_id IN (%s)`, nil, caseInstanceIDs); err != nil {
		return fmt.Errorf("bulk delete milestones: %w", err)
	}
	return nil
}

// DeletePlanItem removes one plan item instance by id. A missing row is a no-op.
func (s *Store) DeletePlanItem(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM historic_plan_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete plan item %q: %w", id, err)
	}
	return nil
}

// BulkDeletePlanItems removes every plan item instance owned by a case
// instance in caseInstanceIDs.
func (s *Store) BulkDeletePlanItems(ctx context.Context, caseInstanceIDs []string) error {
	if err := s.execIn(ctx, `DELETE FROM historic_plan_items WHERE case_instance_id IN (%s)`, nil, caseInstanceIDs); err != nil {
		return fmt.Errorf("bulk delete plan items: %w", err)
	}
	return nil
}

// DeleteIdentityLinks removes the identity links owned by (scopeID, scopeType).
func (s *Store) DeleteIdentityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM historic_identity_links
		WHERE scope_id = ? AND scope_type = ?
	`, scopeID, string(scopeType))
	if err != nil {
		return fmt.Errorf("delete identity links for %s %q: %w", scopeType, scopeID, err)
	}
	return nil
}

// BulkDeleteIdentityLinks removes the identity links of scopeType whose scope
// id is in scopeIDs.
func (s *Store) BulkDeleteIdentityLinks(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	err := s.execIn(ctx, `
		DELETE FROM historic_identity_links
		WHERE scope_type = ? AND scope_id IN (%s)
	`, []any{string(scopeType)}, scopeIDs)
	if err != nil {
		return fmt.Errorf("bulk delete %s identity links: %w", scopeType, err)
	}
	return nil
}

// DeleteEntityLinks removes the entity links owned by (scopeID, scopeType).
func (s *Store) DeleteEntityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM historic_entity_links
		WHERE scope_id = ? AND scope_type = ?
	`, scopeID, string(scopeType))
	if err != nil {
		return fmt.Errorf("delete entity links for %s %q: %w", scopeType, scopeID, err)
	}
	return nil
}

// BulkDeleteEntityLinks removes the entity links of scopeType whose scope id is
// in scopeIDs.
func (s *Store) BulkDeleteEntityLinks(ctx context.Context, scopeType history.ScopeType, scopeIDs []string) error {
	err := s.execIn(ctx, `
		DELETE FROM historic_entity_links
		WHERE scope_type = ? AND scope_id IN (%s)
	`, []any{string(scopeType)}, scopeIDs)
	if err != nil {
		return fmt.Errorf("bulk delete %s entity links: %w", scopeType, err)
	}
	return nil
}

// DeleteVariable removes one variable instance by id. A missing row is a no-op.
func (s *Store) DeleteVariable(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM historic_variables WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete variable %q: %w", id, err)
	}
	return nil
}

// BulkDeleteVariables removes the variables of scopeType whose scope id is in
// scopeIDs.
func (s *Store) BulkDeleteVariables(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	err := s.execIn(ctx, `
		DELETE FROM historic_variables
		WHERE scope_type = ? AND scope_id IN (%s)
	`, []any{string(scopeType)}, scopeIDs)
	if err != nil {
		return fmt.Errorf("bulk delete %s variables: %w", scopeType, err)
	}
	return nil
}

// DeleteCaseInstance removes one case instance record by id.
// Sub-cases are not touched; their parent_id keeps pointing at id.
func (s *Store) DeleteCaseInstance(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM historic_case_instances WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete case instance %q: %w", id, err)
	}
	return nil
}

// BulkDeleteCaseInstances removes the case instance records in ids.
func (s *Store) BulkDeleteCaseInstances(ctx context.Context, ids []string) error {
	if err := s.execIn(ctx, `DELETE FROM historic_case_instances WHERE id IN (%s)`, nil, ids); err != nil {
		return fmt.Errorf("bulk delete case instances: %w", err)
	}
	return nil
}

// execIn runs a statement whose single %s verb is replaced by an IN list,
// once per chunk of ids. leading args are bound before the ids.
// An empty id list executes nothing.
func (s *Store) execIn(ctx context.Context, format string, leading []any, ids []string) error {
	for _, chunk := range history.Chunk(ids, s.batchSize) {
		query := fmt.Sprintf(format, placeholders(len(chunk)))
		args := make([]any, 0, len(leading)+len(chunk))
		args = append(args, leading...)
		args = append(args, stringArgs(chunk)...)
		if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
