package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"smart_exam_backend/internal/config"
	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/repository"
	"smart_exam_backend/internal/util"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ExportService renders result sheets to CSV and stores them in object
// storage for download by the school office.
type ExportService struct {
	client  *minio.Client
	bucket  string
	Results *repository.ResultRepository
	Exams   *repository.ExamRepository
}

func NewExportService(cfg *config.StorageConfig, results *repository.ResultRepository, exams *repository.ExamRepository) (*ExportService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ExportService{
		client:  client,
		bucket:  cfg.Bucket,
		Results: results,
		Exams:   exams,
	}, nil
}

var exportHeader = []string{
	"studentId", "obtainedMarks", "effectiveMarks", "percentage",
	"grade", "status", "rank", "published",
}

// ExportResults writes the exam's cohort as a CSV object and returns
// the object key. The cohort is read once so the sheet is a consistent
// snapshot.
func (s *ExportService) ExportResults(ctx context.Context, examID uint, actor *util.Claims) (string, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		return "", err
	}
	if actor.Role != model.Admin && exam.CreatedBy != actor.UserID {
		return "", util.ErrPermissionDenied
	}

	results, err := s.Results.ListByExam(examID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		record := []string{
			strconv.FormatUint(uint64(r.StudentID), 10),
			strconv.FormatFloat(r.ObtainedMarks, 'f', 2, 64),
			strconv.FormatFloat(r.EffectiveMarks, 'f', 2, 64),
			strconv.FormatFloat(r.Percentage, 'f', 2, 64),
			r.Grade,
			string(r.Status),
			strconv.Itoa(r.Rank),
			strconv.FormatBool(r.Published),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("results/%s/%s-%s.csv",
		time.Now().Format(util.DateFormat), exam.Code, uuid.New().String())

	_, err = s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", err
	}
	return key, nil
}
