package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/plansync"
	shoppingdb "meal-shopping-planner/internal/shopping/db"
	"meal-shopping-planner/internal/units"
)

// Repository handles persistence of shopping lists and their items.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
	}
}

// CreateWithItems stores every draft, lists and items, in one transaction.
func (r *Repository) CreateWithItems(ctx context.Context, drafts []Draft) ([]List, error) {
	now := database.Now()
	lists := make([]List, 0, len(drafts))

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		for _, d := range drafts {
			list := d.List
			list.ID = uuid.NewString()
			list.CreatedAt = now
			list.UpdatedAt = now
			if list.Status == "" {
				list.Status = StatusActive
			}

			params, err := listParams(list)
			if err != nil {
				return err
			}
			if err := q.InsertShoppingList(ctx, params); err != nil {
				return fmt.Errorf("failed to insert shopping list: %w", err)
			}
			if _, err := insertItems(ctx, q, list.ID, d.Items); err != nil {
				return err
			}
			lists = append(lists, list)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// Get retrieves a list by ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*List, error) {
	row, err := r.queries.GetShoppingList(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	list, err := listFromRow(row)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByStatus lists shopping lists in one status, or all of them for "".
func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]List, error) {
	var rows []shoppingdb.ShoppingList
	var err error
	if status == "" {
		rows, err = r.queries.ListAllShoppingLists(ctx)
	} else {
		rows, err = r.queries.ListShoppingListsByStatus(ctx, string(status))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return listsFromRows(rows)
}

// ListActiveOverlapping returns active lists whose plan range shares a day with rng.
func (r *Repository) ListActiveOverlapping(ctx context.Context, rng calendar.Range) ([]List, error) {
	rows, err := r.queries.ListActiveShoppingListsOverlapping(ctx, shoppingdb.ListActiveShoppingListsOverlappingParams{
		EndDate:   calendar.Format(rng.End),
		StartDate: calendar.Format(rng.Start),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active shopping lists: %w", err)
	}
	return listsFromRows(rows)
}

// SyncTargets exposes active lists to the change detector.
func (r *Repository) SyncTargets(ctx context.Context, rng calendar.Range) ([]plansync.Target, error) {
	lists, err := r.ListActiveOverlapping(ctx, rng)
	if err != nil {
		return nil, err
	}
	targets := make([]plansync.Target, 0, len(lists))
	for _, l := range lists {
		targets = append(targets, plansync.Target{ListID: l.ID, Range: l.PlanRange()})
	}
	return targets, nil
}

// Items returns a list's items in display order.
func (r *Repository) Items(ctx context.Context, listID string) ([]Item, error) {
	rows, err := r.queries.ListShoppingListItems(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list items: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := itemFromRow(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetItem retrieves a single item, or nil when it does not exist.
func (r *Repository) GetItem(ctx context.Context, id string) (*Item, error) {
	row, err := r.queries.GetShoppingListItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list item: %w", err)
	}
	item, err := itemFromRow(row)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceItems swaps a list's whole item set in one transaction. Items without
// an ID get a new one. The stored items are returned in order.
func (r *Repository) ReplaceItems(ctx context.Context, listID string, items []Item) ([]Item, error) {
	var stored []Item
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		if _, err := q.GetShoppingList(ctx, listID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrListNotFound
			}
			return fmt.Errorf("failed to get shopping list: %w", err)
		}
		if err := q.DeleteShoppingListItems(ctx, listID); err != nil {
			return fmt.Errorf("failed to clear shopping list items: %w", err)
		}
		var err error
		stored, err = insertItems(ctx, q, listID, items)
		if err != nil {
			return err
		}
		if err := q.TouchShoppingList(ctx, shoppingdb.TouchShoppingListParams{UpdatedAt: database.Now(), ID: listID}); err != nil {
			return fmt.Errorf("failed to touch shopping list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SetChecked marks an item as purchased or not.
func (r *Repository) SetChecked(ctx context.Context, itemID string, checked bool) error {
	n, err := r.queries.SetShoppingListItemChecked(ctx, shoppingdb.SetShoppingListItemCheckedParams{
		Checked: checked,
		ID:      itemID,
	})
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// UpdateQuantity changes an item's amount and unit. A nil quantity means "to taste".
func (r *Repository) UpdateQuantity(ctx context.Context, itemID string, qty *float64, unit units.Unit) error {
	n, err := r.queries.UpdateShoppingListItemQuantity(ctx, shoppingdb.UpdateShoppingListItemQuantityParams{
		Quantity: nullFloat(qty),
		Unit:     string(unit),
		ID:       itemID,
	})
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetStatus moves a list through its lifecycle.
func (r *Repository) SetStatus(ctx context.Context, listID string, status Status) error {
	n, err := r.queries.UpdateShoppingListStatus(ctx, shoppingdb.UpdateShoppingListStatusParams{
		Status:    string(status),
		UpdatedAt: database.Now(),
		ID:        listID,
	})
	if err != nil {
		return fmt.Errorf("failed to update shopping list status: %w", err)
	}
	if n == 0 {
		return ErrListNotFound
	}
	return nil
}

// Delete removes a list together with its items.
func (r *Repository) Delete(ctx context.Context, listID string) error {
	n, err := r.queries.DeleteShoppingList(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	if n == 0 {
		return ErrListNotFound
	}
	return nil
}

func insertItems(ctx context.Context, q *shoppingdb.Queries, listID string, items []Item) ([]Item, error) {
	stored := make([]Item, 0, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ListID = listID
		item.Position = i

		params, err := itemParams(item)
		if err != nil {
			return nil, err
		}
		if err := q.InsertShoppingListItem(ctx, params); err != nil {
			return nil, fmt.Errorf("failed to insert item %s: %w", item.Name, err)
		}
		stored = append(stored, item)
	}
	return stored, nil
}

func listParams(l List) (shoppingdb.InsertShoppingListParams, error) {
	categories, err := json.Marshal(nonNil(l.Categories))
	if err != nil {
		return shoppingdb.InsertShoppingListParams{}, fmt.Errorf("failed to marshal categories: %w", err)
	}
	warnings := l.Warnings
	if warnings == nil {
		warnings = []Warning{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return shoppingdb.InsertShoppingListParams{}, fmt.Errorf("failed to marshal warnings: %w", err)
	}
	part := l.Part
	if part == "" {
		part = PartNone
	}
	mode := l.SplitMode
	if mode == "" {
		mode = SplitSingle
	}
	return shoppingdb.InsertShoppingListParams{
		ID:            l.ID,
		Name:          l.Name,
		StartDate:     calendar.Format(l.Start),
		EndDate:       calendar.Format(l.End),
		PlanStartDate: calendar.Format(l.PlanStart),
		Status:        string(l.Status),
		SplitMode:     string(mode),
		Strategy:      string(l.Strategy),
		Categories:    string(categories),
		Part:          string(part),
		WindowDays:    int64(l.WindowDays),
		Warnings:      string(warningsJSON),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}, nil
}

func listFromRow(row shoppingdb.ShoppingList) (List, error) {
	start, err := calendar.Parse(row.StartDate)
	if err != nil {
		return List{}, fmt.Errorf("failed to parse start date of list %s: %w", row.ID, err)
	}
	end, err := calendar.Parse(row.EndDate)
	if err != nil {
		return List{}, fmt.Errorf("failed to parse end date of list %s: %w", row.ID, err)
	}
	planStart, err := calendar.Parse(row.PlanStartDate)
	if err != nil {
		return List{}, fmt.Errorf("failed to parse plan start of list %s: %w", row.ID, err)
	}

	var categories []string
	if err := json.Unmarshal([]byte(row.Categories), &categories); err != nil {
		return List{}, fmt.Errorf("failed to unmarshal categories of list %s: %w", row.ID, err)
	}
	var warnings []Warning
	if err := json.Unmarshal([]byte(row.Warnings), &warnings); err != nil {
		return List{}, fmt.Errorf("failed to unmarshal warnings of list %s: %w", row.ID, err)
	}

	return List{
		ID:         row.ID,
		Name:       row.Name,
		Start:      start,
		End:        end,
		PlanStart:  planStart,
		Status:     Status(row.Status),
		SplitMode:  SplitMode(row.SplitMode),
		Strategy:   Strategy(row.Strategy),
		Categories: categories,
		Part:       Part(row.Part),
		WindowDays: int(row.WindowDays),
		Warnings:   warnings,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func listsFromRows(rows []shoppingdb.ShoppingList) ([]List, error) {
	lists := make([]List, 0, len(rows))
	for _, row := range rows {
		l, err := listFromRow(row)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}

func itemParams(it Item) (shoppingdb.InsertShoppingListItemParams, error) {
	recipes, err := json.Marshal(nonNil(it.Recipes))
	if err != nil {
		return shoppingdb.InsertShoppingListItemParams{}, fmt.Errorf("failed to marshal recipes: %w", err)
	}
	dates := make([]string, 0, len(it.Dates))
	for _, d := range it.Dates {
		dates = append(dates, calendar.Format(d))
	}
	datesJSON, err := json.Marshal(dates)
	if err != nil {
		return shoppingdb.InsertShoppingListItemParams{}, fmt.Errorf("failed to marshal dates: %w", err)
	}
	var split sql.NullString
	if it.Split != nil {
		b, err := json.Marshal(it.Split)
		if err != nil {
			return shoppingdb.InsertShoppingListItemParams{}, fmt.Errorf("failed to marshal split info: %w", err)
		}
		split = sql.NullString{String: string(b), Valid: true}
	}
	status := it.FreshnessStatus
	if status == "" {
		status = aggregate.StatusOK
	}
	category := it.Category
	if category == "" {
		category = "other"
	}
	return shoppingdb.InsertShoppingListItemParams{
		ID:               it.ID,
		ListID:           it.ListID,
		IngredientName:   it.Name,
		Quantity:         nullFloat(it.Quantity),
		Unit:             string(it.Unit),
		Category:         category,
		Checked:          it.Checked,
		UsedInRecipes:    string(recipes),
		UsedOnDates:      string(datesJSON),
		FreshnessStatus:  string(status),
		FreshnessWarning: it.FreshnessWarning,
		SplitInfo:        split,
		Position:         int64(it.Position),
	}, nil
}

func itemFromRow(row shoppingdb.ShoppingListItem) (Item, error) {
	item := Item{
		ID:               row.ID,
		ListID:           row.ListID,
		Name:             row.IngredientName,
		Unit:             units.Unit(row.Unit),
		Category:         row.Category,
		Checked:          row.Checked,
		FreshnessStatus:  aggregate.Status(row.FreshnessStatus),
		FreshnessWarning: row.FreshnessWarning,
		Position:         int(row.Position),
	}
	if row.Quantity.Valid {
		q := row.Quantity.Float64
		item.Quantity = &q
	}
	if err := json.Unmarshal([]byte(row.UsedInRecipes), &item.Recipes); err != nil {
		return Item{}, fmt.Errorf("failed to unmarshal recipes of item %s: %w", row.ID, err)
	}
	var dates []string
	if err := json.Unmarshal([]byte(row.UsedOnDates), &dates); err != nil {
		return Item{}, fmt.Errorf("failed to unmarshal dates of item %s: %w", row.ID, err)
	}
	for _, s := range dates {
		d, err := calendar.Parse(s)
		if err != nil {
			return Item{}, fmt.Errorf("failed to parse date of item %s: %w", row.ID, err)
		}
		item.Dates = append(item.Dates, d)
	}
	if row.SplitInfo.Valid {
		var split SplitInfo
		if err := json.Unmarshal([]byte(row.SplitInfo.String), &split); err != nil {
			return Item{}, fmt.Errorf("failed to unmarshal split info of item %s: %w", row.ID, err)
		}
		item.Split = &split
	}
	return item, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
