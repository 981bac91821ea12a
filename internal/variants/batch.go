package variants

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const defaultBatchConcurrency = 8

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// OpFailure describes one failed call of a batch.
type OpFailure struct {
	Op        OpKind `json:"op"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name,omitempty"`
	Error     string `json:"error"`
}

// Result holds what the batch managed to persist. Created keeps the order of
// Plan.Create; entries whose call failed are left out.
type Result struct {
	Created  []Variant   `json:"created"`
	Updated  []Variant   `json:"updated"`
	Deleted  []string    `json:"deleted"`
	Failures []OpFailure `json:"failures,omitempty"`
}

// ExecutorParams configure the batch executor.
type ExecutorParams struct {
	Persister   Persister
	Logger      *logger.Logger
	Metrics     *metrics.VariantBatchMetrics
	Concurrency int
}

// Executor runs a Plan against a Persister as one unordered, concurrent batch.
type Executor struct {
	persister   Persister
	logg        *logger.Logger
	metrics     *metrics.VariantBatchMetrics
	concurrency int
}

func NewExecutor(params ExecutorParams) (*Executor, error) {
	if params.Persister == nil {
		return nil, fmt.Errorf("variant persister required")
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &Executor{
		persister:   params.Persister,
		logg:        params.Logger,
		metrics:     params.Metrics,
		concurrency: concurrency,
	}, nil
}

type batchTask struct {
	op    OpKind
	index int
	v     Variant
	id    string
}

// Apply fires every operation of the plan and waits for all of them. A failed
// call never cancels its siblings, and calls already dispatched keep running
// even if ctx is cancelled. Any failure fails the batch with DEPENDENCY_ERROR;
// calls that succeeded are not rolled back.
func (e *Executor) Apply(ctx context.Context, productID string, plan Plan) (Result, error) {
	tasks := make([]batchTask, 0, plan.Size())
	for i, v := range plan.Create {
		tasks = append(tasks, batchTask{op: OpCreate, index: i, v: v})
	}
	for i, v := range plan.Update {
		tasks = append(tasks, batchTask{op: OpUpdate, index: i, v: v, id: v.ID})
	}
	for i, id := range plan.Delete {
		tasks = append(tasks, batchTask{op: OpDelete, index: i, id: id})
	}

	created := make([]*Variant, len(plan.Create))
	updated := make([]*Variant, len(plan.Update))
	deleted := make([]bool, len(plan.Delete))

	callCtx := context.WithoutCancel(ctx)
	sem := make(chan struct{}, e.concurrency)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     error
		failures []OpFailure
	)

	start := time.Now()
	for _, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(task batchTask) {
			defer wg.Done()
			defer func() { <-sem }()

			saved, err := e.run(callCtx, productID, task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s %s: %w", task.op, task.label(), err))
				failures = append(failures, OpFailure{Op: task.op, VariantID: task.id, Name: task.v.Name, Error: err.Error()})
				return
			}
			switch task.op {
			case OpCreate:
				created[task.index] = &saved
			case OpUpdate:
				updated[task.index] = &saved
			case OpDelete:
				deleted[task.index] = true
			}
		}(task)
	}
	wg.Wait()

	result := Result{Created: []Variant{}, Updated: []Variant{}, Deleted: []string{}, Failures: failures}
	for _, v := range created {
		if v != nil {
			result.Created = append(result.Created, *v)
		}
	}
	for _, v := range updated {
		if v != nil {
			result.Updated = append(result.Updated, *v)
		}
	}
	for i, ok := range deleted {
		if ok {
			result.Deleted = append(result.Deleted, plan.Delete[i])
		}
	}

	if e.logg != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{
			"product_id":  productID,
			"create":      len(plan.Create),
			"update":      len(plan.Update),
			"delete":      len(plan.Delete),
			"failed":      len(failures),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	if errs != nil {
		e.metrics.IncBatch("failure")
		if e.logg != nil {
			e.logg.Error(ctx, "variant batch failed", errs)
		}
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "variant batch failed").
			WithDetails(map[string]any{"failures": failures, "attempted": len(tasks)})
	}

	e.metrics.IncBatch("success")
	if e.logg != nil {
		e.logg.Info(ctx, "variant batch completed")
	}
	return result, nil
}

func (e *Executor) run(ctx context.Context, productID string, task batchTask) (Variant, error) {
	start := time.Now()
	var (
		saved Variant
		err   error
	)
	switch task.op {
	case OpCreate:
		saved, err = e.persister.Create(ctx, productID, task.v)
	case OpUpdate:
		saved, err = e.persister.Update(ctx, productID, task.v)
	case OpDelete:
		err = e.persister.Delete(ctx, task.id)
	}
	e.metrics.ObserveDuration(string(task.op), time.Since(start))
	if err != nil {
		e.metrics.IncFailure(string(task.op))
		return Variant{}, err
	}
	e.metrics.IncSuccess(string(task.op))
	return saved, nil
}

func (t batchTask) label() string {
	if t.id != "" {
		return t.id
	}
	return fmt.Sprintf("%q", t.v.Name)
}
