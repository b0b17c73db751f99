package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/casehistory/internal/history"
)

// Import writes every record of an archive in a single unit of work.
// The archive must already be prepared (ids filled, references validated).
//
// Tasks are written before task log entries so the foreign key holds.
// Existing ids are left untouched (ON CONFLICT(id) DO NOTHING), which makes a
// re-import of the same archive a no-op.
func (s *Store) Import(ctx context.Context, a *history.Archive) error {
	return s.WithinTx(ctx, func(tx *Store) error {
		for _, c := range a.CaseInstances {
			if err := tx.WriteCaseInstance(ctx, c); err != nil {
				return err
			}
		}
		for _, m := range a.Milestones {
			if err := tx.WriteMilestone(ctx, m); err != nil {
				return err
			}
		}
		for _, p := range a.PlanItems {
			if err := tx.WritePlanItem(ctx, p); err != nil {
				return err
			}
		}
		for _, l := range a.IdentityLinks {
			if err := tx.WriteIdentityLink(ctx, l); err != nil {
				return err
			}
		}
		for _, l := range a.EntityLinks {
			if err := tx.WriteEntityLink(ctx, l); err != nil {
				return err
			}
		}
		for _, v := range a.Variables {
			if err := tx.WriteVariable(ctx, v); err != nil {
				return err
			}
		}
		for _, t := range a.Tasks {
			if err := tx.WriteTask(ctx, t); err != nil {
				return err
			}
		}
		for _, e := range a.TaskLogEntries {
			if err := tx.WriteTaskLogEntry(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCaseInstance inserts a historic case instance.
// An empty ParentID is stored as NULL.
func (s *Store) WriteCaseInstance(ctx context.Context, c history.CaseInstance) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_case_instances
		(id, parent_id, name, business_key, case_definition_id, state, tenant_id, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		nullString(c.ParentID),
		c.Name,
		c.BusinessKey,
		c.CaseDefinitionID,
		c.State,
		c.TenantID,
		nullTime(c.StartTime),
		nullTimePtr(c.EndTime),
	)
	if err != nil {
		return fmt.Errorf("write case instance %q: %w", c.ID, err)
	}
	return nil
}

// WriteMilestone inserts a historic milestone instance.
func (s *Store) WriteMilestone(ctx context.Context, m history.Milestone) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_milestones (id, case_instance_id, name, element_id, time_stamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, m.ID, m.CaseInstanceID, m.Name, m.ElementID, nullTimePtr(m.TimeStamp))
	if err != nil {
		return fmt.Errorf("write milestone %q: %w", m.ID, err)
	}
	return nil
}

// WritePlanItem inserts a historic plan item instance.
func (s *Store) WritePlanItem(ctx context.Context, p history.PlanItem) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_plan_items (id, case_instance_id, name, plan_item_definition_type, state)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, p.CaseInstanceID, p.Name, p.PlanItemDefinitionType, p.State)
	if err != nil {
		return fmt.Errorf("write plan item %q: %w", p.ID, err)
	}
	return nil
}

// WriteIdentityLink inserts a historic identity link.
func (s *Store) WriteIdentityLink(ctx context.Context, l history.IdentityLink) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_identity_links (id, scope_id, scope_type, type, user_id, group_id, task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, l.ID, l.ScopeID, string(l.ScopeType), l.Type, l.UserID, l.GroupID, nullString(l.TaskID))
	if err != nil {
		return fmt.Errorf("write identity link %q: %w", l.ID, err)
	}
	return nil
}

// WriteEntityLink inserts a historic entity link.
func (s *Store) WriteEntityLink(ctx context.Context, l history.EntityLink) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_entity_links
		(id, scope_id, scope_type, reference_scope_id, reference_scope_type, link_type, hierarchy_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		l.ID,
		l.ScopeID,
		string(l.ScopeType),
		l.ReferenceScopeID,
		string(l.ReferenceScopeType),
		l.LinkType,
		l.HierarchyType,
	)
	if err != nil {
		return fmt.Errorf("write entity link %q: %w", l.ID, err)
	}
	return nil
}

// WriteVariable inserts a historic variable instance.
func (s *Store) WriteVariable(ctx context.Context, v history.Variable) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_variables (id, scope_id, scope_type, sub_scope_id, name, type, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, v.ID, v.ScopeID, string(v.ScopeType), v.SubScopeID, v.Name, v.Type, v.Text)
	if err != nil {
		return fmt.Errorf("write variable %q: %w", v.ID, err)
	}
	return nil
}

// WriteTask inserts a historic task instance.
func (s *Store) WriteTask(ctx context.Context, t history.Task) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_tasks (id, scope_id, scope_type, name, assignee)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, t.ID, t.ScopeID, string(t.ScopeType), t.Name, t.Assignee)
	if err != nil {
		return fmt.Errorf("write task %q: %w", t.ID, err)
	}
	return nil
}

// WriteTaskLogEntry inserts a task log entry.
// Note: The task referenced by TaskID must exist (foreign key constraint).
func (s *Store) WriteTaskLogEntry(ctx context.Context, e history.TaskLogEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO historic_task_log_entries (id, task_id, scope_id, type, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.TaskID, e.ScopeID, e.Type, e.Data)
	if err != nil {
		return fmt.Errorf("write task log entry %q: %w", e.ID, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return nullTime(*t)
}
