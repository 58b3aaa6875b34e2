// Package imageset reconciles the evidence image list of a complaint with a
// requested set of kept URLs and newly attached files.
package imageset

import (
	"context"
	"strings"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Result describes what a reconciliation did.
type Result struct {
	// Final is the list to persist: kept URLs followed by uploaded ones.
	Final models.ImageList
	// Uploaded holds the URLs created by this call.
	Uploaded models.ImageList
	// Deleted holds the old URLs that were not kept.
	Deleted models.ImageList
	// Cleanup has one outcome per deleted URL.
	Cleanup []blob.Outcome
}

// Reconciler applies image set changes against object storage.
type Reconciler struct {
	store blob.Store
	log   logrus.FieldLogger
}

// NewReconciler creates a reconciler backed by store.
func NewReconciler(store blob.Store, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// FilterKeep returns the members of keep that belong to old, in the requested
// order, without blanks or duplicates. A list holding the same URL twice is
// collapsed to its first occurrence.
func FilterKeep(old models.ImageList, keep []string) models.ImageList {
	out := models.ImageList{}
	seen := make(map[string]bool, len(keep))
	for _, u := range keep {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] || !old.Contains(u) {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Reconcile stages the change and commits it straight away. Callers that
// persist the result should use Stage and Commit around the write instead.
func (r *Reconciler) Reconcile(ctx context.Context, old models.ImageList, keep []string, files []blob.File, prefix string) (*Result, error) {
	res, err := r.Stage(ctx, old, keep, files, prefix)
	if err != nil {
		return nil, err
	}
	r.Commit(ctx, res)
	return res, nil
}

// Stage uploads every file and works out which old URLs are no longer kept,
// without deleting anything. An upload failure removes whatever this call
// already uploaded and returns a DependencyError.
func (r *Reconciler) Stage(ctx context.Context, old models.ImageList, keep []string, files []blob.File, prefix string) (*Result, error) {
	old = old.Compact()
	kept := FilterKeep(old, keep)

	uploaded, err := r.Upload(ctx, files, prefix)
	if err != nil {
		return nil, err
	}

	deleted := models.ImageList{}
	for _, u := range old {
		if !kept.Contains(u) && !deleted.Contains(u) {
			deleted = append(deleted, u)
		}
	}

	return &Result{
		Final:    append(append(models.ImageList{}, kept...), uploaded...).Compact(),
		Uploaded: uploaded,
		Deleted:  deleted,
	}, nil
}

// Commit deletes the URLs a staged result dropped, best-effort, and records
// one outcome per URL. A nil result is a no-op.
func (r *Reconciler) Commit(ctx context.Context, res *Result) {
	if res == nil || len(res.Deleted) == 0 {
		return
	}
	res.Cleanup = blob.DeleteAll(ctx, r.store, res.Deleted, r.log)
}

// Upload stores every file under a fresh name and returns the URLs in file
// order. On failure the files uploaded so far are removed best-effort.
func (r *Reconciler) Upload(ctx context.Context, files []blob.File, prefix string) (models.ImageList, error) {
	uploaded := models.ImageList{}
	for _, f := range files {
		name := blob.NewFilename(prefix, f.Name)
		url, err := r.store.Upload(ctx, f.Data, name)
		if err != nil {
			r.log.WithError(err).WithField("file", f.Name).Error("failed to upload image")
			r.Discard(ctx, uploaded)
			return nil, errs.NewDependencyError("upload image", err)
		}
		uploaded = append(uploaded, url)
	}
	return uploaded, nil
}

// Discard removes URLs uploaded by an operation that did not complete.
func (r *Reconciler) Discard(ctx context.Context, urls models.ImageList) []blob.Outcome {
	if len(urls) == 0 {
		return nil
	}
	return blob.DeleteAll(ctx, r.store, urls, r.log)
}

// Store returns the object store the reconciler works against.
func (r *Reconciler) Store() blob.Store {
	return r.store
}
