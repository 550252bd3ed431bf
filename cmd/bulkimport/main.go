// Command bulkimport uploads a directory of scanned files as documents owned by one user.
//
//	bulkimport -owner clerk@agency.gov -folder <folder-id> -tags intake,2026 ./scans
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"govdocs/internal/config"
	"govdocs/internal/database"
	"govdocs/internal/importer"
	"govdocs/internal/logging"
	"govdocs/internal/model"
	"govdocs/internal/repository"
	"govdocs/internal/repository/postgres"
	"govdocs/internal/service"
	"govdocs/internal/storage"
)

func main() {
	owner := flag.String("owner", "", "email of the user who will own the documents")
	folderID := flag.String("folder", "", "target folder id (optional)")
	departmentID := flag.String("department", "", "department id (optional)")
	tags := flag.String("tags", "", "comma-separated tags applied to every document")
	flag.Parse()

	if *owner == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bulkimport -owner <email> [-folder id] [-department id] [-tags a,b] <dir>")
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.Location())

	st, err := run(cfg, logger, *owner, flag.Arg(0), importer.Options{
		FolderID:     *folderID,
		DepartmentID: *departmentID,
		Tags:         splitTags(*tags),
		Progress:     os.Stdout,
	})
	if err != nil {
		logger.Error("bulkimport_failed", err, nil)
		os.Exit(1)
	}
	fmt.Printf("\nuploaded %d of %d files\n", st.Uploaded, st.Total)
	for _, f := range st.Failed {
		fmt.Println("failed:", f)
	}
	if len(st.Failed) > 0 {
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *logging.Logger, ownerEmail, root string, opt importer.Options) (importer.Stats, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, logger.With("database"))
	if err != nil {
		return importer.Stats{}, err
	}
	defer db.Close()

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return importer.Stats{}, err
	}

	users := postgres.NewUserPostgres(db)
	u, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(ownerEmail)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return importer.Stats{}, fmt.Errorf("owner %s does not exist", ownerEmail)
		}
		return importer.Stats{}, err
	}
	actor := model.Actor{UserID: u.ID, Email: u.Email, FullName: u.FullName, Roles: u.Roles}

	folders := postgres.NewFolderPostgres(db)
	activity := service.NewActivityService(postgres.NewActivityPostgres(db), logger, cfg.Location())
	docs := service.NewDocumentService(objStore, postgres.NewDocumentPostgres(db), folders,
		postgres.NewAccessRequestPostgres(db), postgres.NewDepartmentPostgres(db), activity, cfg.Location())

	return importer.New(docs, logger).Run(ctx, actor, root, opt)
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
