package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/pkg/storage"
	"github.com/antonvb/authgate/internal/shared/constant"
)

const userExportPageSize int32 = 1_000

type (
	UserExportInput struct {
		Search    string
		Statuses  []string
		SortBy    string
		SortOrder string
	}

	UserExportOutput struct {
		Total       int64
		ObjectKey   string
		DownloadURL string
	}
)

// UserExport writes the matching users as a CSV object to the export bucket
// and returns a short-lived presigned download link.
func (s *Usecase) UserExport(ctx context.Context, in UserExportInput) (*UserExportOutput, error) {
	ctx, span := s.startSpan(ctx, "UserExport")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermAuthMgmtUsers, constant.PermActExport)
	if err != nil {
		return nil, err
	}

	filterData := entity.UserListFilterData{
		OrderBy:        in.SortBy,
		OrderDirection: in.SortOrder,
		Search:         in.Search,
		Statuses:       entity.ToInt16Slice(entity.ParseSafeUserStatuses(in.Statuses)),
		Size:           userExportPageSize,
		Page:           0,
	}
	if in.Search != "" {
		filterData.IsFilterBySearch = true
	}
	if len(filterData.Statuses) > 0 {
		filterData.IsFilterByStatus = true
	}

	var (
		users []entity.User
		page  int32 = 1
		total int64
	)

	for {
		filterData.Page = (page - 1) * userExportPageSize

		pageUsers, count, err := s.repoDB.GetUserList(ctx, filterData)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo export users", "error", err)
			return nil, goerror.NewServer(err)
		}

		if page == 1 {
			total = count
			if total == 0 {
				break
			}
			users = make([]entity.User, 0, min(total, int64(userExportPageSize)))
		}

		users = append(users, pageUsers...)

		if int64(len(users)) >= total || len(pageUsers) == 0 {
			break
		}

		page++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "email", "full_name", "role", "status", "updated_at"})
	for _, u := range users {
		_ = w.Write([]string{
			strconv.FormatInt(u.ID, 10),
			u.Email,
			u.FullName,
			u.Role.String(),
			u.Status.String(),
			u.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		slog.ErrorContext(ctx, "failed to encode users csv", "error", err)
		return nil, goerror.NewServer(err)
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.auth.export_bucket"))
	key := fmt.Sprintf("users/%s/%s.csv", s.clock.Now().Format("2006-01-02"), s.uuid.Generate())

	_, err = s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
		Metadata:    map[string]string{"exported_by": strconv.FormatInt(clm.UserID, 10)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload users export", "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, s.cfg.GetMinute("modules.auth.export_url_ttl_minutes"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign users export", "object_key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserExportOutput{
		Total:       total,
		ObjectKey:   key,
		DownloadURL: url,
	}, nil
}
