package faqs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"faq-backend/internal/extract"
	"faq-backend/internal/llm"
	"faq-backend/internal/prompt"
	"faq-backend/internal/shared/storage/upload"
	"faq-backend/internal/shared/telemetry"
)

// Service sequences extraction, prompting, generation and persistence for
// FAQ requests.
type Service struct {
	Repo          Repo
	Uploads       *upload.Store
	Extractor     *extract.Extractor
	LLM           llm.Client
	Examples      []prompt.Example
	Retention     time.Duration
	MaxInputChars int
}

// SubmitInput carries the caller-supplied fields of a submission.
type SubmitInput struct {
	UserID          int64
	FileName        string
	File            io.Reader
	URL             string
	WrittenData     string
	QuestionCount   int
	CustomQuestions string
}

// Submit runs the full synchronous flow: resolve input, extract, prompt,
// generate, persist, then clean up the temporary upload and sweep the upload
// directory. When both a file and a URL are supplied the file takes precedence.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Request, error) {
	filePath, text, err := s.resolveAndExtract(ctx, in)
	if err != nil {
		return Request{}, err
	}

	result, err := s.generate(ctx, text, in.QuestionCount, in.CustomQuestions)
	if err != nil {
		s.cleanup(filePath)
		return Request{}, err
	}

	record := Request{
		UserID:          in.UserID,
		FilePath:        filePath,
		URL:             strings.TrimSpace(in.URL),
		WrittenData:     in.WrittenData,
		QuestionCount:   in.QuestionCount,
		CustomQuestions: in.CustomQuestions,
		Result:          result,
	}
	id, err := s.Repo.Insert(ctx, record)
	if err != nil {
		s.cleanup(filePath)
		return Request{}, fmt.Errorf("persist faq request: %w", err)
	}
	record.ID = id
	record.EditedResult = record.Result

	s.cleanup(filePath)
	return record, nil
}

// Generate runs the same pipeline without persisting anything.
func (s *Service) Generate(ctx context.Context, in SubmitInput) (string, error) {
	filePath, text, err := s.resolveAndExtract(ctx, in)
	if err != nil {
		return "", err
	}

	result, err := s.generate(ctx, text, in.QuestionCount, in.CustomQuestions)
	if err != nil {
		s.cleanup(filePath)
		return "", err
	}

	s.cleanup(filePath)
	return result, nil
}

// ProcessByID re-resolves a previously inserted record, runs the pipeline
// against its stored input and writes the result back. The record's source
// file, if any, is deleted after a successful write.
func (s *Service) ProcessByID(ctx context.Context, id int64) (string, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	var text string
	switch {
	case record.FilePath != "" && fileExists(record.FilePath):
		text, err = s.Extractor.File(record.FilePath)
		if err != nil {
			return "", err
		}
	case record.URL != "":
		text = s.Extractor.URL(ctx, record.URL)
	default:
		return "", ErrInputRequired
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}

	result, err := s.generate(ctx, text, record.QuestionCount, record.CustomQuestions)
	if err != nil {
		return "", err
	}

	if err := s.Repo.UpdateResult(ctx, id, result); err != nil {
		return "", fmt.Errorf("persist faq result: %w", err)
	}

	if record.FilePath != "" {
		if err := os.Remove(record.FilePath); err != nil && !os.IsNotExist(err) {
			telemetry.Warn("faq.file.remove", map[string]any{"path": record.FilePath, "error": err.Error()})
		}
	}
	s.sweep()
	return result, nil
}

// resolveAndExtract validates the input source, saves an uploaded file to the
// temp store and returns the saved path (empty for URL input) plus the
// extracted text. The extension is checked before anything touches disk, so a
// rejected upload leaves no file behind; a saved upload that then fails
// extraction is deleted immediately instead of waiting for the sweep.
func (s *Service) resolveAndExtract(ctx context.Context, in SubmitInput) (string, string, error) {
	hasFile := in.File != nil && strings.TrimSpace(in.FileName) != ""
	hasURL := strings.TrimSpace(in.URL) != ""
	if !hasFile && !hasURL {
		return "", "", ErrInputRequired
	}

	if hasFile {
		ext := strings.ToLower(filepath.Ext(in.FileName))
		if !supportedExtension(ext) {
			return "", "", fmt.Errorf("%w: %s", extract.ErrUnsupportedType, ext)
		}

		filePath, err := s.Uploads.Save(ctx, in.FileName, in.File)
		if err != nil {
			return "", "", fmt.Errorf("save upload: %w", err)
		}

		text, err := s.Extractor.File(filePath)
		if err != nil {
			s.cleanup(filePath)
			return "", "", err
		}
		if strings.TrimSpace(text) == "" {
			s.cleanup(filePath)
			return "", "", ErrEmptyContent
		}
		return filePath, text, nil
	}

	text := s.Extractor.URL(ctx, in.URL)
	if strings.TrimSpace(text) == "" {
		return "", "", ErrEmptyContent
	}
	return "", text, nil
}

func (s *Service) generate(ctx context.Context, text string, questionCount int, customQuestions string) (string, error) {
	built := prompt.Build(text, questionCount, customQuestions, s.Examples, s.MaxInputChars)
	result, err := s.LLM.Complete(ctx, built)
	if err != nil {
		return "", fmt.Errorf("generate faq: %w", err)
	}
	return result, nil
}

// cleanup removes a processed temp upload and opportunistically sweeps the
// upload directory for files past the retention window.
func (s *Service) cleanup(filePath string) {
	if filePath != "" {
		if err := s.Uploads.Remove(filePath); err != nil && !os.IsNotExist(err) {
			telemetry.Warn("faq.file.remove", map[string]any{"path": filePath, "error": err.Error()})
		}
	}
	s.sweep()
}

func (s *Service) sweep() {
	retention := s.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	s.Uploads.Sweep(retention)
}

func supportedExtension(ext string) bool {
	switch ext {
	case ".pdf", ".doc", ".docx", ".pptx":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
