// Package importer uploads a local directory tree as documents for one owner.
package importer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/service"
	"govdocs/internal/storage"
)

// Options control a run.
type Options struct {
	FolderID     string
	DepartmentID string
	Tags         []string
	// Progress receives the bar output. Nil disables the bar.
	Progress io.Writer
}

// Stats summarises a run.
type Stats struct {
	Total    int
	Uploaded int
	Failed   []string
}

// Importer walks a directory and uploads every regular file through the document service.
type Importer struct {
	docs   service.DocumentService
	logger *logging.Logger
	// spacing is the minimum gap between upload starts.
	spacing time.Duration
}

func New(docs service.DocumentService, logger *logging.Logger) *Importer {
	return &Importer{docs: docs, logger: logger.With("importer"), spacing: time.Millisecond}
}

// Files lists regular files under root in lexical order, skipping dotfiles.
func Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Run uploads every file under root as actor. A failed file is recorded and the run continues;
// only a cancelled context or an unreadable root stops it early.
func (im *Importer) Run(ctx context.Context, actor model.Actor, root string, opt Options) (Stats, error) {
	files, err := Files(root)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(files)}

	var bar *progressbar.ProgressBar
	if opt.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opt.Progress),
			progressbar.OptionSetDescription("Uploading"),
			progressbar.OptionShowCount(),
		)
	}

	tick := time.NewTicker(im.spacing)
	defer tick.Stop()

	for _, path := range files {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-tick.C:
		}

		if err := im.upload(ctx, actor, path, opt); err != nil {
			st.Failed = append(st.Failed, path)
			im.logger.Error("import_failed", err, map[string]any{"path": path})
		} else {
			st.Uploaded++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	im.logger.Info("import_finished", map[string]any{
		"total":    st.Total,
		"uploaded": st.Uploaded,
		"failed":   len(st.Failed),
	})
	return st, nil
}

func (im *Importer) upload(ctx context.Context, actor model.Actor, path string, opt Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	_, err = im.docs.Upload(ctx, actor, service.UploadInput{
		Reader:       f,
		Filename:     name,
		ContentType:  storage.ContentTypeFor("", name),
		Size:         info.Size(),
		FolderID:     opt.FolderID,
		DepartmentID: opt.DepartmentID,
		Tags:         opt.Tags,
	})
	return err
}
