package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/casehistory/internal/history"
)

// GetCaseInstance retrieves a historic case instance by id.
// Returns an error wrapping history.ErrNotFound if no such record exists.
func (s *Store) GetCaseInstance(ctx context.Context, id string) (history.CaseInstance, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, parent_id, name, business_key, case_definition_id, state, tenant_id, start_time, end_time
		FROM historic_case_instances
		WHERE id = ?
	`, id)

	var (
		c         history.CaseInstance
		parentID  sql.NullString
		startTime sql.NullTime
		endTime   sql.NullTime
	)
	err := row.Scan(&c.ID, &parentID, &c.Name, &c.BusinessKey, &c.CaseDefinitionID,
		&c.State, &c.TenantID, &startTime, &endTime)
	if errors.Is(err, sql.ErrNoRows) {
		return history.CaseInstance{}, fmt.Errorf("case instance %q: %w", id, history.ErrNotFound)
	}
	if err != nil {
		return history.CaseInstance{}, fmt.Errorf("read case instance %q: %w", id, err)
	}

	c.ParentID = parentID.String
	if startTime.Valid {
		c.StartTime = startTime.Time
	}
	if endTime.Valid {
		t := endTime.Time
		c.EndTime = &t
	}
	return c, nil
}

// FindMilestones returns the milestones of a case instance ordered by id.
// Returns an empty slice (not nil) if there are none.
func (s *Store) FindMilestones(ctx context.Context, caseInstanceID string) ([]history.Milestone, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, case_instance_id, name, element_id, time_stamp
		FROM historic_milestones
		WHERE case_instance_id = ?
		ORDER BY id COLLATE BINARY ASC
	`, caseInstanceID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []history.Milestone{}
	for rows.Next() {
		var m history.Milestone
		var ts sql.NullTime
		if err := rows.Scan(&m.ID, &m.CaseInstanceID, &m.Name, &m.ElementID, &ts); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if ts.Valid {
			t := ts.Time
			m.TimeStamp = &t
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestones: %w", err)
	}
	return milestones, nil
}

// FindPlanItems returns the plan item instances of a case instance ordered by id.
// Returns an empty slice (not nil) if there are none.
func (s *Store) FindPlanItems(ctx context.Context, caseInstanceID string) ([]history.PlanItem, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, case_instance_id, name, plan_item_definition_type, state
		FROM historic_plan_items
		WHERE case_instance_id = ?
		ORDER BY id COLLATE BINARY ASC
	`, caseInstanceID)
	if err != nil {
		return nil, fmt.Errorf("query plan items: %w", err)
	}
	defer rows.Close()

	items := []history.PlanItem{}
	for rows.Next() {
		var p history.PlanItem
		if err := rows.Scan(&p.ID, &p.CaseInstanceID, &p.Name, &p.PlanItemDefinitionType, &p.State); err != nil {
			return nil, fmt.Errorf("scan plan item: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan items: %w", err)
	}
	return items, nil
}

// FindVariables returns the variables owned by (scopeID, scopeType) ordered by id.
// Returns an empty slice (not nil) if there are none.
func (s *Store) FindVariables(ctx context.Context, scopeID string, scopeType history.ScopeType) ([]history.Variable, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, scope_id, scope_type, sub_scope_id, name, type, text
		FROM historic_variables
		WHERE scope_id = ? AND scope_type = ?
		ORDER BY id COLLATE BINARY ASC
	`, scopeID, string(scopeType))
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()

	vars := []history.Variable{}
	for rows.Next() {
		var (
			v         history.Variable
			scopeKind string
		)
		if err := rows.Scan(&v.ID, &v.ScopeID, &scopeKind, &v.SubScopeID, &v.Name, &v.Type, &v.Text); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		v.ScopeType = history.ScopeType(scopeKind)
		vars = append(vars, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}
	return vars, nil
}

// FindChildCaseIDs returns the ids of the case instances whose parent is
// parentID, ordered by id.
func (s *Store) FindChildCaseIDs(ctx context.Context, parentID string) ([]string, error) {
	ids, err := s.queryIDs(ctx, `
		SELECT id FROM historic_case_instances
		WHERE parent_id = ?
		ORDER BY id COLLATE BINARY ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("find child cases: %w", err)
	}
	return ids, nil
}

// FindChildCaseIDsIn returns the ids of the case instances whose parent is in
// parentIDs, ordered by id.
func (s *Store) FindChildCaseIDsIn(ctx context.Context, parentIDs []string) ([]string, error) {
	ids := []string{}
	for _, chunk := range history.Chunk(parentIDs, s.batchSize) {
		query := fmt.Sprintf(`
			SELECT id FROM historic_case_instances
			WHERE parent_id IN (%s)
		`, placeholders(len(chunk)))
		found, err := s.queryIDs(ctx, query, stringArgs(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("find child cases: %w", err)
		}
		ids = append(ids, found...)
	}
	sort.Strings(ids)
	return ids, nil
}

// queryIDs runs a single-column id query and collects the results.
func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
