// Package service implements scope aggregation and active-scope switching on
// top of the membership and organization repositories.
package service

import (
	"context"
	"sort"

	orgdomain "scopehub/internal/organization/domain"
	"scopehub/internal/scope/domain"
)

// RowSource supplies the pre-joined membership rows for one user.
type RowSource interface {
	AggregationRows(ctx context.Context, userID string) ([]domain.AggregationRow, error)
}

// OrganizationGetter resolves organizations referenced as workspace parents.
type OrganizationGetter interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Organization, error)
}

// Aggregator turns a user's flat membership rows into the deduplicated,
// ordered scope list shown by a scope switcher.
type Aggregator struct {
	rows RowSource
	orgs OrganizationGetter
}

// NewAggregator returns an Aggregator reading rows from rows and resolving
// dangling parent organizations through orgs.
func NewAggregator(rows RowSource, orgs OrganizationGetter) *Aggregator {
	return &Aggregator{rows: rows, orgs: orgs}
}

// ScopesFor returns one ScopeRoleView per distinct scope the user belongs to,
// with role names merged into Description, plus non-switchable synthetic
// entries for organizations that own one of the user's workspaces without the
// user being a direct member. An empty or unknown user yields an empty list.
func (a *Aggregator) ScopesFor(ctx context.Context, userID string) ([]domain.ScopeRoleView, error) {
	if userID == "" {
		return []domain.ScopeRoleView{}, nil
	}
	rows, err := a.rows.AggregationRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	byScope := make(map[string]*domain.ScopeRoleView)
	var order []string
	orgSet := make(map[string]struct{})
	parentSet := make(map[string]struct{})
	var parentOrder []string

	for _, row := range rows {
		view, ok := byScope[row.SourceID]
		if !ok {
			view = &domain.ScopeRoleView{
				ID:          row.SourceID,
				Name:        row.SourceName,
				ParentID:    row.ParentID,
				Description: row.RoleName,
				Switchable:  true,
			}
			if row.ParentID != "" {
				view.Type = domain.ScopeTypeWorkspace
				if _, seen := parentSet[row.ParentID]; !seen {
					parentSet[row.ParentID] = struct{}{}
					parentOrder = append(parentOrder, row.ParentID)
				}
			} else {
				view.Type = domain.ScopeTypeOrganization
				orgSet[row.SourceID] = struct{}{}
			}
			byScope[row.SourceID] = view
			order = append(order, row.SourceID)
			continue
		}
		view.Description += "," + row.RoleName
	}

	views := make([]domain.ScopeRoleView, 0, len(order))
	for _, id := range order {
		views = append(views, *byScope[id])
	}

	// Organizations implied as workspace parents but not directly joined.
	for _, parentID := range parentOrder {
		if _, direct := orgSet[parentID]; direct {
			continue
		}
		org, err := a.orgs.GetByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			// Parent already deleted; not an error.
			continue
		}
		views = append(views, domain.ScopeRoleView{
			ID:         org.ID,
			Type:       domain.ScopeTypeOrganization,
			Name:       org.Name,
			Switchable: false,
		})
	}

	// Organizations first, then workspaces grouped by owning organization.
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].ParentID == "" {
			return views[j].ParentID != ""
		}
		if views[j].ParentID == "" {
			return false
		}
		return views[i].ParentID < views[j].ParentID
	})

	return views, nil
}
