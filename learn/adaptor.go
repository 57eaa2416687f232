package learn

import (
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/core/model"
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/metrics"
	"github.com/ardunn/automatminer/pkg/errors"
)

// Learner modes.
const (
	ModeSearch = "search" // search a candidate model family under a budget
	ModeSingle = "single" // fit one fixed estimator
)

// Options configures a learner Adaptor. Zero values select the documented
// defaults.
type Options struct {
	// Mode selects the fitting strategy. Empty means search.
	Mode string

	// Estimator is the fixed model for single mode. Nil means a
	// problem-type-appropriate default (a random forest).
	Estimator Estimator

	// Budget bounds the wall-clock time of the search. Once exceeded, no
	// further candidates are evaluated; at least one always is. Zero
	// means unbounded.
	Budget time.Duration

	// NWorkers is the parallelism passed through to candidate
	// evaluation. Zero means the number of CPU cores.
	NWorkers int

	// CVFolds is the internal cross-validation fold count used to score
	// candidates. Zero means 3.
	CVFolds int

	// Metric names the search's scoring metric. Empty means
	// neg_mean_squared_error for regression, accuracy for classification.
	Metric string

	// Seed fixes stochastic estimators for reproducible searches.
	Seed int64
}

func (o Options) mode() string {
	if o.Mode == "" {
		return ModeSearch
	}
	return o.Mode
}

func (o Options) cvFolds() int {
	if o.CVFolds <= 0 {
		return 3
	}
	return o.CVFolds
}

func (o Options) nWorkers() int {
	if o.NWorkers <= 0 {
		return runtime.NumCPU()
	}
	return o.NWorkers
}

// Adaptor is the uniform learner wrapper: it detects the problem type from
// the target column, encodes classification labels, fits its backend
// (search or fixed estimator) on the numeric feature matrix, and appends
// predictions as "<target> predicted".
type Adaptor struct {
	model.BaseTransformer

	Opts Options

	// Fitted state.
	Problem        ProblemType
	Target         string
	FeatureColumns []string
	Classes        []string // label table for classification targets
	Best           Estimator
	BestScore      float64
	Metric         string
}

// NewAdaptor validates the options.
func NewAdaptor(opts Options) (*Adaptor, error) {
	switch opts.mode() {
	case ModeSearch, ModeSingle:
	default:
		return nil, errors.NewConfigError("Learner", "unknown mode '"+opts.Mode+"'")
	}
	if opts.mode() == ModeSearch && opts.Estimator != nil {
		return nil, errors.NewConfigError("Learner", "a fixed estimator requires single mode")
	}
	return &Adaptor{Opts: opts}, nil
}

// Fit detects the problem type, then trains the backend on the frame's
// numeric feature columns.
func (a *Adaptor) Fit(df *dataframe.DataFrame, target string) error {
	cells, ok := df.Col(target)
	if !ok {
		return errors.NewPreconditionError("Learner", "target column '"+target+"' not found")
	}
	a.SetFitting()

	problem, y, classes, err := EncodeTarget(cells, target)
	if err != nil {
		a.Reset()
		return err
	}
	a.Problem = problem
	a.Classes = classes
	a.Target = target
	a.Metric = a.Opts.Metric
	if a.Metric == "" {
		if problem == Classification {
			a.Metric = "accuracy"
		} else {
			a.Metric = "neg_mean_squared_error"
		}
	}

	a.FeatureColumns = nil
	for _, name := range df.Columns() {
		if name != target {
			a.FeatureColumns = append(a.FeatureColumns, name)
		}
	}
	X, err := df.Matrix(a.FeatureColumns)
	if err != nil {
		a.Reset()
		return err
	}

	slog.Info("learner fit started",
		"mode", a.Opts.mode(), "problem", string(problem),
		"rows", df.NRows(), "features", len(a.FeatureColumns))

	if a.Opts.mode() == ModeSingle {
		est := a.Opts.Estimator
		if est == nil {
			est = NewRandomForest(taskFor(problem), 50)
		}
		best := est.Clone()
		if err := best.Fit(X, y); err != nil {
			a.Reset()
			return err
		}
		a.Best = best
		a.BestScore = math.NaN()
	} else {
		best, score, err := a.search(X, y)
		if err != nil {
			a.Reset()
			return err
		}
		a.Best = best
		a.BestScore = score
	}

	slog.Info("learner fit finished", "estimator", a.Best.Name())
	a.SetFitted()
	return nil
}

// Predict runs the fitted backend over the frame's feature columns and
// returns a copy with the prediction column appended.
func (a *Adaptor) Predict(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("Learner", "Predict")
	}

	var missing []string
	for _, name := range a.FeatureColumns {
		if !df.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewShapeMismatchError("Learner", missing, nil)
	}

	X, err := df.Matrix(a.FeatureColumns)
	if err != nil {
		return nil, err
	}
	preds, err := a.Best.Predict(X)
	if err != nil {
		return nil, err
	}

	cells := make([]interface{}, len(preds))
	for i, v := range preds {
		if a.Problem == Classification {
			cells[i] = DecodeClass(v, a.Classes)
		} else {
			cells[i] = v
		}
	}

	out := df.Copy()
	if err := out.AddColumn(PredictionColumn(a.Target), cells); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictionColumn names the appended prediction column for a target.
func PredictionColumn(target string) string {
	return target + " predicted"
}

// search evaluates the candidate family under the budget and refits the
// best candidate on the full training data.
func (a *Adaptor) search(X *mat.Dense, y []float64) (Estimator, float64, error) {
	candidates := a.candidates()
	folds := cvSplit(len(y), a.Opts.cvFolds())

	scores := make([]float64, len(candidates))
	evaluated := make([]bool, len(candidates))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.Opts.nWorkers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score, err := a.scoreCandidate(candidates[i], X, y, folds)
				if err != nil {
					slog.Warn("search candidate failed", "estimator", candidates[i].Name(), "err", err.Error())
					continue
				}
				scores[i] = score
				evaluated[i] = true
			}
		}()
	}

	start := time.Now()
	for i := range candidates {
		if i > 0 && a.Opts.Budget > 0 && time.Since(start) > a.Opts.Budget {
			slog.Info("search budget exhausted", "evaluated", i, "candidates", len(candidates))
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	greater := metrics.IsGreaterBetter(a.Metric)
	bestIdx := -1
	for i := range candidates {
		if !evaluated[i] {
			continue
		}
		if bestIdx < 0 ||
			(greater && scores[i] > scores[bestIdx]) ||
			(!greater && scores[i] < scores[bestIdx]) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, 0, errors.NewPreconditionError("Learner", "no search candidate could be fitted")
	}

	best := candidates[bestIdx].Clone()
	if err := best.Fit(X, y); err != nil {
		return nil, 0, err
	}
	slog.Info("search selected estimator",
		"estimator", best.Name(), "metric", a.Metric, "score", scores[bestIdx])
	return best, scores[bestIdx], nil
}

// scoreCandidate computes the mean cross-validation score of one candidate.
func (a *Adaptor) scoreCandidate(candidate Estimator, X *mat.Dense, y []float64, folds []cvFold) (float64, error) {
	total := 0.0
	for _, fold := range folds {
		est := candidate.Clone()
		trainX, trainY := subset(X, y, fold.train)
		testX, testY := subset(X, y, fold.test)
		if err := est.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		preds, err := est.Predict(testX)
		if err != nil {
			return 0, err
		}
		score, err := metrics.Score(a.Metric, testY, preds)
		if err != nil {
			return 0, err
		}
		total += score
	}
	return total / float64(len(folds)), nil
}

// candidates is the searched model family per problem type, in a fixed
// deterministic order.
func (a *Adaptor) candidates() []Estimator {
	if a.Problem == Classification {
		forest := NewRandomForest(TaskClassification, 30)
		forest.Seed = a.Opts.Seed
		tree := NewDecisionTree(TaskClassification, 8)
		tree.Seed = a.Opts.Seed
		return []Estimator{
			forest,
			tree,
			NewKNNClassifier(5),
			NewKNNClassifier(1),
		}
	}
	forest := NewRandomForest(TaskRegression, 30)
	forest.Seed = a.Opts.Seed
	return []Estimator{
		NewRidge(1.0),
		NewRidge(0.1),
		NewLinearRegression(),
		forest,
		NewKNNRegressor(5),
	}
}

// Summarize returns a short human-readable description of the learner.
func (a *Adaptor) Summarize() map[string]interface{} {
	out := map[string]interface{}{
		"stage":  "Learner",
		"mode":   a.Opts.mode(),
		"fitted": a.IsFitted(),
	}
	if a.IsFitted() {
		out["problem"] = string(a.Problem)
		out["estimator"] = a.Best.Name()
	}
	return out
}

// Inspect returns the complete concrete configuration and fitted state.
func (a *Adaptor) Inspect() map[string]interface{} {
	out := map[string]interface{}{
		"stage":     "Learner",
		"mode":      a.Opts.mode(),
		"budget":    a.Opts.Budget.String(),
		"n_workers": a.Opts.nWorkers(),
		"cv_folds":  a.Opts.cvFolds(),
		"metric":    a.Metric,
		"fitted":    a.IsFitted(),
	}
	if a.IsFitted() {
		out["problem"] = string(a.Problem)
		out["estimator"] = a.Best.Name()
		out["estimator_params"] = a.Best.Params()
		out["feature_columns"] = append([]string(nil), a.FeatureColumns...)
		out["classes"] = append([]string(nil), a.Classes...)
		if imp, ok := a.Best.(Importancer); ok {
			out["feature_importances"] = imp.FeatureImportances()
		}
	}
	return out
}

func taskFor(problem ProblemType) string {
	if problem == Classification {
		return TaskClassification
	}
	return TaskRegression
}

// cvFold is one internal train/test index split.
type cvFold struct {
	train []int
	test  []int
}

// cvSplit produces k contiguous folds over n rows, capping k at n.
func cvSplit(n, k int) []cvFold {
	if k > n {
		k = n
	}
	if k < 2 {
		k = 2
		if k > n {
			k = n
		}
	}
	folds := make([]cvFold, 0, k)
	foldSize := n / k
	remainder := n % k
	cursor := 0
	for i := 0; i < k; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		test := make([]int, 0, size)
		for j := cursor; j < cursor+size; j++ {
			test = append(test, j)
		}
		train := make([]int, 0, n-size)
		for j := 0; j < n; j++ {
			if j < cursor || j >= cursor+size {
				train = append(train, j)
			}
		}
		folds = append(folds, cvFold{train: train, test: test})
		cursor += size
	}
	return folds
}

func subset(X *mat.Dense, y []float64, indices []int) (*mat.Dense, []float64) {
	_, p := X.Dims()
	sx := mat.NewDense(len(indices), p, nil)
	sy := make([]float64, len(indices))
	for i, idx := range indices {
		for j := 0; j < p; j++ {
			sx.Set(i, j, X.At(idx, j))
		}
		sy[i] = y[idx]
	}
	return sx, sy
}
