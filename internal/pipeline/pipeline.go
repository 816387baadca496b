package pipeline

import (
	"context"
	"log/slog"
	"os"

	"github.com/forensint/celltrace/internal/archive"
	"github.com/forensint/celltrace/internal/model"
)

// Ingestion is the accumulated state of one archive ingestion. Steps read
// what earlier steps produced and add their own results.
type Ingestion struct {
	// CaseNumber, PersonName, and ArchivePath identify the upload.
	CaseNumber  string
	PersonName  string
	ArchivePath string

	// UploadSessionID ties every record of this ingestion together.
	UploadSessionID string

	// Workspace is the ephemeral directory the archive was unpacked into.
	// Each upload gets its own so concurrent uploads never share partial
	// state.
	Workspace string

	// DeviceInfo is the resolved device label.
	DeviceInfo string

	// OwnerPhone is the device owner's phone when the archive reveals it.
	OwnerPhone string

	// Classified lists the archive files by content.
	Classified *archive.Classified

	// Photos indexes the archive's images for contact matching.
	Photos *archive.PhotoIndex

	// Extracted records, accumulated across steps and persisted at the end.
	Contacts    []model.Contact
	Credentials []model.Credential
	Accounts    []model.Account
	Profile     *model.SuspectProfile

	// Stats summarizes what the ingestion did.
	Stats Stats

	// ParseFailures lists documents that could not be parsed. Failures are
	// isolated; ingestion continues with the rest.
	ParseFailures []string

	// PerformedSteps names the steps that ran, in order.
	PerformedSteps []string

	// Err is the error that aborted the ingestion, nil on success.
	// Batch processing records it here instead of failing the batch so
	// one bad archive never blocks the rest.
	Err error
}

// Stats counts the outcome of one ingestion.
type Stats struct {
	DocumentsParsed   int `json:"documents_parsed"`
	DocumentsFailed   int `json:"documents_failed"`
	ContactsStored    int `json:"contacts_stored"`
	CredentialsStored int `json:"credentials_stored"`
	AccountsStored    int `json:"accounts_stored"`
	PhotosMatched     int `json:"photos_matched"`
}

// NewIngestion prepares the state for one upload. The session id is
// generated here so every record and log line of the upload shares it.
func NewIngestion(caseNumber, personName, archivePath string) *Ingestion {
	return &Ingestion{
		CaseNumber:      caseNumber,
		PersonName:      personName,
		ArchivePath:     archivePath,
		UploadSessionID: model.NewRecordID(),
	}
}

// Cleanup removes the ephemeral unpack workspace. Safe to call when no
// workspace was created.
func (ing *Ingestion) Cleanup() {
	if ing.Workspace != "" {
		_ = os.RemoveAll(ing.Workspace)
	}
}

// stamp copies the session identity onto a record's common fields.
func (ing *Ingestion) stamp(caseNumber, personName, deviceInfo, sessionID *string) {
	*caseNumber = ing.CaseNumber
	*personName = ing.PersonName
	*deviceInfo = ing.DeviceInfo
	if sessionID != nil {
		*sessionID = ing.UploadSessionID
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// ingestion state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the ingestion to modify.
	// Returns an error if the step fails critically; non-critical failures
	// should be recorded on the ingestion and return nil.
	Do(ctx context.Context, ing *Ingestion) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
// The first step error aborts the ingestion: a half-ingested archive
// would persist nothing anyway, since persistence is the final step.
func (p *Pipeline) Execute(ctx context.Context, ing *Ingestion) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("ingestion cancelled",
				"step", step.Name(),
				"session", ing.UploadSessionID,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"case", ing.CaseNumber,
			"session", ing.UploadSessionID,
		)

		if err := step.Do(ctx, ing); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"case", ing.CaseNumber,
				"session", ing.UploadSessionID,
				"error", err,
			)
			return err
		}

		ing.PerformedSteps = append(ing.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
