package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"grocery-manager/internal/dto"
	"grocery-manager/internal/gateway"
	"grocery-manager/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	OpRefreshAll     = "refresh_all"
	OpAddItem        = "add_item"
	OpUpdateItem     = "update_item"
	OpDeleteItem     = "delete_item"
	OpRenameCategory = "rename_category"
	OpSearch         = "search"
)

var errMissingID = errors.New("backend returned a record without an id")

// Option configures a Store
type Option func(*Store)

// WithLogger sets the event logger
func WithLogger(logger EventLoggerInterface) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics MetricsRecorderInterface) Option {
	return func(s *Store) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// Store is the single source of truth for the four item collections and
// their titles. The snapshot only ever holds state the backend confirmed.
//
// Mutations on one category are serialized by that category's lock. A refresh
// takes every category lock in AllCategories order, so it never interleaves
// with a mutation. Each refresh gets a generation number; starting one cancels
// the previous and only the newest generation may commit.
type Store struct {
	gateway gateway.GatewayInterface
	logger  EventLoggerInterface
	metrics MetricsRecorderInterface

	categoryLocks map[models.Category]*sync.Mutex

	mu            sync.RWMutex
	items         map[models.Category][]Item
	titles        map[models.Category]string
	titleIDs      map[models.Category]string
	pending       int
	lastErr       string
	generation    uint64
	cancelRefresh context.CancelFunc
}

// NewStore creates an empty store with default titles
func NewStore(gw gateway.GatewayInterface, opts ...Option) StoreInterface {
	s := &Store{
		gateway:       gw,
		logger:        NewEventLogger(nil),
		metrics:       NewNoopMetrics(),
		categoryLocks: make(map[models.Category]*sync.Mutex, len(models.AllCategories())),
		items:         emptyItems(),
		titles:        defaultTitles(),
		titleIDs:      make(map[models.Category]string),
	}

	for _, category := range models.AllCategories() {
		s.categoryLocks[category] = &sync.Mutex{}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) RefreshAll(ctx context.Context, userID string) error {
	start := time.Now()
	gen, refreshCtx, cancel := s.nextRefresh(ctx)
	defer cancel()

	s.lockAll()
	defer s.unlockAll()

	s.mu.RLock()
	current := s.generation
	s.mu.RUnlock()
	if current != gen {
		s.logger.LogRefreshSuperseded(ctx, gen, current)
		return ErrRefreshSuperseded
	}

	s.begin()
	items, titles, titleIDs, err := s.fetchAll(refreshCtx, userID)

	s.mu.Lock()
	s.pending--
	if gen != s.generation {
		current = s.generation
		s.mu.Unlock()
		s.logger.LogRefreshSuperseded(ctx, gen, current)
		return ErrRefreshSuperseded
	}
	s.cancelRefresh = nil
	if err != nil {
		err = &RemoteError{Op: OpRefreshAll, Err: err}
		s.lastErr = err.Error()
	} else {
		s.items = items
		s.titles = titles
		s.titleIDs = titleIDs
		s.lastErr = ""
	}
	s.mu.Unlock()

	duration := time.Since(start)
	s.metrics.RecordProcessingTime(OpRefreshAll, duration)
	if err != nil {
		s.metrics.IncrementCounter("store_operation", map[string]string{"operation": OpRefreshAll, "category": "", "status": "failed"})
		s.logger.LogOperationFailed(ctx, OpRefreshAll, "", err.Error(), duration.Milliseconds())
		return err
	}

	total := 0
	for category, list := range items {
		total += len(list)
		s.metrics.RecordGauge("category_items", float64(len(list)), map[string]string{"category": category.String()})
	}
	s.metrics.IncrementCounter("store_operation", map[string]string{"operation": OpRefreshAll, "category": "", "status": "success"})
	s.logger.LogOperationCompleted(ctx, OpRefreshAll, "", total, duration.Milliseconds())

	return nil
}

// nextRefresh starts a new refresh generation and cancels the previous one
func (s *Store) nextRefresh(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	refreshCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelRefresh != nil {
		s.cancelRefresh()
	}
	s.generation++
	s.cancelRefresh = cancel

	return s.generation, refreshCtx, cancel
}

// fetchAll loads the four categories and the titles concurrently. The first
// failure cancels the remaining fetches.
func (s *Store) fetchAll(ctx context.Context, userID string) (map[models.Category][]Item, map[models.Category]string, map[models.Category]string, error) {
	categories := models.AllCategories()
	results := make([][]dto.ItemRecord, len(categories))
	var titleRecords []dto.TitleRecord
	opts := gateway.ListOptions{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			records, err := s.gateway.ListItems(gctx, category, opts)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	g.Go(func() error {
		records, err := s.gateway.ListTitles(gctx, opts)
		if err != nil {
			return err
		}
		titleRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	items := make(map[models.Category][]Item, len(categories))
	for i, category := range categories {
		list := make([]Item, 0, len(results[i]))
		seen := make(map[string]struct{}, len(results[i]))
		for _, record := range results[i] {
			item := newItem(record)
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			list = append(list, item)
		}
		items[category] = list
	}

	titles := defaultTitles()
	titleIDs := make(map[models.Category]string)
	for _, record := range titleRecords {
		if !record.Category.IsValid() {
			continue
		}
		titleIDs[record.Category] = record.ID.String()
		if record.Title != "" {
			titles[record.Category] = record.Title
		} else {
			titles[record.Category] = record.Category.DefaultTitle()
		}
	}

	return items, titles, titleIDs, nil
}

func (s *Store) AddItem(ctx context.Context, category models.Category, draft Draft, userID string) (Item, error) {
	if !category.IsValid() {
		return Item{}, s.reject(ctx, OpAddItem, category, categoryError(category))
	}
	if err := draft.Validate(); err != nil {
		return Item{}, s.reject(ctx, OpAddItem, category, err)
	}

	unlock := s.lockCategory(category)
	defer unlock()

	start := time.Now()
	s.begin()

	record, err := s.gateway.CreateItem(ctx, category, draft.record(userID))
	if err == nil && record.ID == "" {
		err = errMissingID
	}
	if err != nil {
		return Item{}, s.settle(ctx, OpAddItem, category, start, err, nil)
	}

	item := newItem(record)
	err = s.settle(ctx, OpAddItem, category, start, nil, func() int {
		list := s.items[category]
		if idx := indexOf(list, item.ID); idx >= 0 {
			list[idx] = item
		} else {
			s.items[category] = append(list, item)
		}
		return len(s.items[category])
	})

	return item, err
}

func (s *Store) UpdateItem(ctx context.Context, category models.Category, id string, draft Draft, userID string) (Item, error) {
	if !category.IsValid() {
		return Item{}, s.reject(ctx, OpUpdateItem, category, categoryError(category))
	}
	if err := draft.Validate(); err != nil {
		return Item{}, s.reject(ctx, OpUpdateItem, category, err)
	}

	unlock := s.lockCategory(category)
	defer unlock()

	existing, err := s.ownedItem(OpUpdateItem, category, id, userID)
	if err != nil {
		return Item{}, s.reject(ctx, OpUpdateItem, category, err)
	}

	start := time.Now()
	s.begin()

	payload := draft.record(userID)
	if payload.UserID == "" {
		payload.UserID = existing.UserID
	}

	record, err := s.gateway.ReplaceItem(ctx, category, id, payload)
	if err != nil {
		return Item{}, s.settle(ctx, OpUpdateItem, category, start, err, nil)
	}

	// an empty answer body still confirms the write
	if record.ID == "" && record.Name == "" {
		record = payload
	}
	item := newItem(record)
	item.ID = id

	err = s.settle(ctx, OpUpdateItem, category, start, nil, func() int {
		list := s.items[category]
		if idx := indexOf(list, id); idx >= 0 {
			list[idx] = item
		}
		return len(list)
	})

	return item, err
}

func (s *Store) DeleteItem(ctx context.Context, category models.Category, id string, userID string) error {
	if !category.IsValid() {
		return s.reject(ctx, OpDeleteItem, category, categoryError(category))
	}

	unlock := s.lockCategory(category)
	defer unlock()

	if _, err := s.ownedItem(OpDeleteItem, category, id, userID); err != nil {
		return s.reject(ctx, OpDeleteItem, category, err)
	}

	start := time.Now()
	s.begin()

	if err := s.gateway.RemoveItem(ctx, category, id); err != nil {
		return s.settle(ctx, OpDeleteItem, category, start, err, nil)
	}

	return s.settle(ctx, OpDeleteItem, category, start, nil, func() int {
		list := s.items[category]
		if idx := indexOf(list, id); idx >= 0 {
			s.items[category] = append(list[:idx:idx], list[idx+1:]...)
		}
		return len(s.items[category])
	})
}

func (s *Store) RenameCategory(ctx context.Context, category models.Category, title string, userID string) error {
	if !category.IsValid() {
		return s.reject(ctx, OpRenameCategory, category, categoryError(category))
	}
	if err := validateTitle(title); err != nil {
		return s.reject(ctx, OpRenameCategory, category, err)
	}

	unlock := s.lockCategory(category)
	defer unlock()

	s.mu.RLock()
	titleID := s.titleIDs[category]
	s.mu.RUnlock()

	start := time.Now()
	s.begin()

	record := dto.TitleRecord{Category: category, Title: title, UserID: userID}

	var saved dto.TitleRecord
	var err error
	if titleID != "" {
		saved, err = s.gateway.ReplaceTitle(ctx, titleID, record)
		if gateway.IsNotFound(err) {
			saved, err = s.gateway.CreateTitle(ctx, record)
		}
	} else {
		saved, err = s.gateway.CreateTitle(ctx, record)
	}
	if err != nil {
		return s.settle(ctx, OpRenameCategory, category, start, err, nil)
	}

	return s.settle(ctx, OpRenameCategory, category, start, nil, func() int {
		s.titles[category] = title
		if id := saved.ID.String(); id != "" {
			s.titleIDs[category] = id
		}
		return len(s.items[category])
	})
}

func (s *Store) Search(ctx context.Context, category models.Category, query string, userID string) ([]Item, error) {
	if !category.IsValid() {
		return nil, s.reject(ctx, OpSearch, category, categoryError(category))
	}

	start := time.Now()
	s.begin()

	records, err := s.gateway.ListItems(ctx, category, gateway.ListOptions{UserID: userID, Query: query})
	if err != nil {
		return nil, s.settle(ctx, OpSearch, category, start, err, nil)
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		items = append(items, newItem(record))
	}

	return items, s.settle(ctx, OpSearch, category, start, nil, func() int {
		return len(items)
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Items:   copyItems(s.items),
		Titles:  copyTitles(s.titles),
		Loading: s.pending > 0,
		Error:   s.lastErr,
	}
}

func (s *Store) Items(category models.Category) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.items[category]
	if !ok {
		return nil
	}
	return append([]Item{}, list...)
}

func (s *Store) Item(category models.Category, id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.items[category]
	if idx := indexOf(list, id); idx >= 0 {
		return list[idx], true
	}
	return Item{}, false
}

func (s *Store) Title(category models.Category) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.titles[category]
}

func (s *Store) ComputeTotal(category models.Category) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeTotal(s.items[category])
}

func (s *Store) ShareText(category models.Category) string {
	return s.Snapshot().ShareText(category)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

// settle ends a pending gateway call. On success commit runs under the state
// lock and returns the category's item count for logging; on failure the
// snapshot is left alone and the error slot is set.
func (s *Store) settle(ctx context.Context, op string, category models.Category, start time.Time, err error, commit func() int) error {
	count := 0

	s.mu.Lock()
	s.pending--
	if err != nil {
		err = &RemoteError{Op: op, Category: category, Err: err}
		s.lastErr = err.Error()
	} else {
		if commit != nil {
			count = commit()
		}
		// a search reads past the snapshot and leaves a mutation's error standing
		if op != OpSearch {
			s.lastErr = ""
		}
	}
	s.mu.Unlock()

	duration := time.Since(start)
	s.metrics.RecordProcessingTime(op, duration)

	if err != nil {
		s.metrics.IncrementCounter("store_operation", map[string]string{"operation": op, "category": category.String(), "status": "failed"})
		s.logger.LogOperationFailed(ctx, op, category, err.Error(), duration.Milliseconds())
		return err
	}

	s.metrics.IncrementCounter("store_operation", map[string]string{"operation": op, "category": category.String(), "status": "success"})
	if op != OpSearch && op != OpRenameCategory {
		s.metrics.RecordGauge("category_items", float64(count), map[string]string{"category": category.String()})
	}
	s.logger.LogOperationCompleted(ctx, op, category, count, duration.Milliseconds())

	return nil
}

// reject reports input refused before any network call
func (s *Store) reject(ctx context.Context, op string, category models.Category, err error) error {
	s.metrics.IncrementCounter("store_operation", map[string]string{"operation": op, "category": category.String(), "status": "rejected"})
	s.logger.LogValidationFailure(ctx, op, err.Error())
	return err
}

// ownedItem looks up id for an update or delete. An item another user owns is
// reported as not found.
func (s *Store) ownedItem(op string, category models.Category, id string, userID string) (Item, error) {
	existing, ok := s.Item(category, id)
	if !ok {
		return Item{}, fmt.Errorf("%s %s/%s: %w", op, category, id, ErrNotFound)
	}
	if userID != "" && existing.UserID != "" && existing.UserID != userID {
		return Item{}, fmt.Errorf("%s %s/%s: owned by another user: %w", op, category, id, ErrNotFound)
	}
	return existing, nil
}

func (s *Store) lockCategory(category models.Category) func() {
	m := s.categoryLocks[category]
	m.Lock()
	return m.Unlock
}

func (s *Store) lockAll() {
	for _, category := range models.AllCategories() {
		s.categoryLocks[category].Lock()
	}
}

func (s *Store) unlockAll() {
	categories := models.AllCategories()
	for i := len(categories) - 1; i >= 0; i-- {
		s.categoryLocks[categories[i]].Unlock()
	}
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
