package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/shoplens/internal/application"
	"github.com/bryanwahyu/shoplens/internal/application/insights"
	domai "github.com/bryanwahyu/shoplens/internal/domain/ai"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
)

// Service implements use-cases untuk analisa produk.
// Satu pipeline per job; pipeline beda job jalan bareng tanpa shared state
// selain Store, jadi aman dipakai concurrent.
type Service struct {
	Store      domain.Store
	Fetcher    domain.Fetcher
	Classifier domai.Classifier
	Fallback   domai.Classifier
	Clock      application.Clock

	// Domain yang didukung, misal "meesho.com"
	Domain string

	// Hook observability, boleh nil. OnPipelineDone dipanggil setelah
	// pipeline mencapai terminal state.
	OnPipelineStart func(jobID domain.JobID)
	OnPipelineDone  func(jobID domain.JobID, status domain.Status)

	// per-job lock: bikin invariant single-writer eksplisit
	jobLocks sync.Map // map[domain.JobID]*sync.Mutex
}

// SubmitOutcome either carries a fresh job id or, on a URL cache hit,
// the cached result directly.
type SubmitOutcome struct {
	JobID  domain.JobID
	Cached *domain.Result
}

// Submit validates the URL, short-circuits on a cached analysis, otherwise
// creates the job and hands the pipeline off to a detached goroutine.
// The caller never blocks on pipeline completion.
func (s *Service) Submit(ctx context.Context, rawURL string) (SubmitOutcome, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" || !strings.Contains(url, s.Domain) {
		return SubmitOutcome{}, domain.ErrInvalidURL
	}

	// cache hit → balikin hasil lama, tanpa bikin job
	var cached domain.Result
	err := s.getJSON(ctx, domain.AnalysisKey(url), &cached)
	switch {
	case err == nil:
		return SubmitOutcome{Cached: &cached}, nil
	case errors.Is(err, domain.ErrMiss):
		// lanjut
	default:
		return SubmitOutcome{}, err
	}

	jobID := domain.JobID("job-" + uuid.New().String())
	job := domain.Job{
		ID:        jobID,
		Status:    domain.StatusScraping,
		Progress:  10,
		Message:   "Scraping product data...",
		StartedAt: s.Clock.Now(),
	}
	if err := s.putJSON(ctx, domain.JobKey(jobID), job, domain.JobTTL); err != nil {
		return SubmitOutcome{}, err
	}

	// 🚀 fire-and-forget; kegagalan diisolasi ke record job ini
	go s.runPipeline(jobID, url)

	return SubmitOutcome{JobID: jobID}, nil
}

// runPipeline executes independently of the submit caller. Every failure,
// panics included, ends up as a terminal failed state on the job record and
// never propagates further.
func (s *Service) runPipeline(jobID domain.JobID, url string) {
	ctx := context.Background()
	final := domain.StatusCompleted

	if s.OnPipelineStart != nil {
		s.OnPipelineStart(jobID)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline panic job=%s: %v", jobID, r)
			s.failJob(ctx, jobID, fmt.Sprintf("internal error: %v", r))
			final = domain.StatusFailed
		}
		if s.OnPipelineDone != nil {
			s.OnPipelineDone(jobID, final)
		}
	}()

	s.updateJob(ctx, jobID, domain.JobUpdate{
		Status: domain.StatusScraping, Progress: 20, Message: "Fetching product info...",
	})

	product, reviews, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		log.Printf("pipeline fetch error job=%s url=%s: %v", jobID, url, err)
		s.failJob(ctx, jobID, err.Error())
		final = domain.StatusFailed
		return
	}

	s.updateJob(ctx, jobID, domain.JobUpdate{
		Status: domain.StatusAnalyzing, Progress: 50,
		Message: "Analyzing reviews...", ProductID: product.ID,
	})

	classified := s.classifyAll(ctx, reviews)

	ins := insights.Aggregate(product, classified)
	if text, err := s.Classifier.Summarize(ctx, product, classified); err == nil && text != "" {
		ins.OverallSummary = text
	}

	s.updateJob(ctx, jobID, domain.JobUpdate{
		Status: domain.StatusAnalyzing, Progress: 80, Message: "Generating insights...",
	})

	now := s.Clock.Now()
	result := domain.Result{
		Product: *product,
		Reviews: classified,
		PriceHistory: []domain.PricePoint{
			{ProductID: product.ID, Price: product.Price, Timestamp: now},
		},
		Insights: ins,
	}

	if err := s.putJSON(ctx, domain.AnalysisKey(url), result, domain.AnalysisTTL); err != nil {
		log.Printf("pipeline cache write error job=%s: %v", jobID, err)
	}
	if err := s.putJSON(ctx, domain.ResultKey(jobID), result, domain.ResultTTL); err != nil {
		log.Printf("pipeline result write error job=%s: %v", jobID, err)
		s.failJob(ctx, jobID, "failed to store analysis result")
		final = domain.StatusFailed
		return
	}

	completed := s.Clock.Now()
	s.updateJob(ctx, jobID, domain.JobUpdate{
		Status: domain.StatusCompleted, Progress: 100,
		Message: "Analysis complete!", CompletedAt: &completed,
	})
}

// classifyAll fan-out klasifikasi per review secara concurrent,
// hasil digabung lagi sesuai urutan input. Error per review tidak
// menggagalkan run: fallback keyword dipakai untuk review itu saja.
func (s *Service) classifyAll(ctx context.Context, reviews []domain.Review) []domain.Review {
	out := make([]domain.Review, len(reviews))
	var wg sync.WaitGroup
	for i, rv := range reviews {
		wg.Add(1)
		go func(i int, rv domain.Review) {
			defer wg.Done()
			sentiment, topics := s.classifyOne(ctx, rv.Text)
			rv.Sentiment = sentiment
			rv.Topics = topics
			out[i] = rv
		}(i, rv)
	}
	wg.Wait()
	return out
}

// classifyOne isolates a single classification. Recover lokal di sini:
// panic dari backend cuma menjatuhkan review itu ke fallback keyword,
// bukan seluruh proses.
func (s *Service) classifyOne(ctx context.Context, text string) (sentiment domain.Sentiment, topics []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("classify panic, using fallback: %v", r)
			sentiment, topics = s.fallbackClassify(ctx, text)
		}
	}()
	sentiment, topics, err := s.Classifier.Classify(ctx, text)
	if err != nil {
		return s.fallbackClassify(ctx, text)
	}
	return sentiment, topics
}

func (s *Service) fallbackClassify(ctx context.Context, text string) (domain.Sentiment, []string) {
	sentiment, topics, _ := s.Fallback.Classify(ctx, text)
	return sentiment, topics
}

// GetStatus returns the job record verbatim.
func (s *Service) GetStatus(ctx context.Context, jobID domain.JobID) (*domain.Job, error) {
	var job domain.Job
	if err := s.getJSON(ctx, domain.JobKey(jobID), &job); err != nil {
		if errors.Is(err, domain.ErrMiss) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// GetResult returns the stored result with price history filtered to the
// requested range. The cached copy is never mutated.
func (s *Service) GetResult(ctx context.Context, jobID domain.JobID, tr domain.TimeRange) (*domain.Result, error) {
	var result domain.Result
	if err := s.getJSON(ctx, domain.ResultKey(jobID), &result); err != nil {
		if errors.Is(err, domain.ErrMiss) {
			return nil, domain.ErrResultNotFound
		}
		return nil, err
	}
	filtered := result.FilterPriceHistory(tr, s.Clock.Now())
	return &filtered, nil
}

// updateJob read-modify-write merge partial update ke record tersimpan.
// Cuma pipeline si job yang nulis, lock per-job bikin itu eksplisit.
func (s *Service) updateJob(ctx context.Context, jobID domain.JobID, update domain.JobUpdate) {
	muIface, _ := s.jobLocks.LoadOrStore(jobID, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	var job domain.Job
	if err := s.getJSON(ctx, domain.JobKey(jobID), &job); err != nil {
		if !errors.Is(err, domain.ErrMiss) {
			log.Printf("job update read error job=%s: %v", jobID, err)
			return
		}
		job = domain.Job{ID: jobID, StartedAt: s.Clock.Now()}
	}
	update.Apply(&job)
	if err := s.putJSON(ctx, domain.JobKey(jobID), job, domain.JobTTL); err != nil {
		log.Printf("job update write error job=%s: %v", jobID, err)
	}
}

func (s *Service) failJob(ctx context.Context, jobID domain.JobID, msg string) {
	if msg == "" {
		msg = "analysis failed"
	}
	s.updateJob(ctx, jobID, domain.JobUpdate{
		Status: domain.StatusFailed, Progress: 0,
		Message: "Analysis failed", Error: msg,
	})
}

// serialisasi eksplisit di boundary store; payload selalu struct bertipe

func (s *Service) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.Store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Service) putJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Store.Set(ctx, key, raw, ttl)
}
