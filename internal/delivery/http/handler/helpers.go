package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/response"

	"github.com/gorilla/mux"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pathInt reads a positive integer route variable.
func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// queryInt returns the query value as an int, or nil when absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

func pagination(r *http.Request) entity.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return entity.Pagination{Page: page, Limit: limit}.Normalize(defaultPageLimit, maxPageLimit)
}

// writeDeletionBlocked answers a refused soft delete with 409 and the
// dependent counts. It reports false for any other error.
func writeDeletionBlocked(w http.ResponseWriter, err error) bool {
	var blocked *usecase.DeletionBlockedError
	if !errors.As(err, &blocked) {
		return false
	}
	response.Conflict(w, blocked.Check.Reason, blocked.Check)
	return true
}

// writeDownload streams the file or redirects to its presigned URL.
func writeDownload(w http.ResponseWriter, r *http.Request, dl *dto.FileDownload, inline bool) {
	if dl.RedirectURL != "" {
		http.Redirect(w, r, dl.RedirectURL, http.StatusFound)
		return
	}
	defer dl.Body.Close()

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, dl.Name))
	if dl.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, dl.Body)
}
