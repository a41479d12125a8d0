package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/marcboeker/go-duckdb"
	log "github.com/sirupsen/logrus"

	"github.com/retutils/redirectfix/message"
	"github.com/retutils/redirectfix/notify"
)

// Service persists rewrite annotations to DuckDB and keeps a bleve index
// over them for free-text search. It implements notify.Annotator.
type Service struct {
	db    *sql.DB
	index bleve.Index
}

func NewService(storageDir string) (*Service, error) {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	dbPath := filepath.Join(storageDir, "rewrites.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS rewrites (
			id TEXT PRIMARY KEY,
			url TEXT,
			method TEXT,
			status_code INTEGER,
			highlight TEXT,
			comment TEXT,
			body_size INTEGER,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init duckdb schema: %w", err)
	}

	indexPath := filepath.Join(storageDir, "rewrites.bleve")
	var index bleve.Index
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		mapping := bleve.NewIndexMapping()

		textFieldMapping := bleve.NewTextFieldMapping()
		textFieldMapping.Analyzer = "standard"

		docMapping := bleve.NewDocumentMapping()
		docMapping.AddFieldMappingsAt("URL", textFieldMapping)
		docMapping.AddFieldMappingsAt("Method", textFieldMapping)
		docMapping.AddFieldMappingsAt("Comment", textFieldMapping)
		docMapping.AddFieldMappingsAt("Preview", textFieldMapping)

		numericFieldMapping := bleve.NewNumericFieldMapping()
		docMapping.AddFieldMappingsAt("Status", numericFieldMapping)

		mapping.DefaultMapping = docMapping

		index, err = bleve.New(indexPath, mapping)
	} else {
		index, err = bleve.Open(indexPath)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open bleve: %w", err)
	}

	return &Service{
		db:    db,
		index: index,
	}, nil
}

func (s *Service) Close() error {
	if s.index != nil {
		s.index.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Annotate implements notify.Annotator by persisting the annotated flow.
func (s *Service) Annotate(f *message.Flow, a notify.Annotation) error {
	return s.Save(NewEntry(f, a))
}

func (s *Service) Save(entry *Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO rewrites (id, url, method, status_code, highlight, comment, body_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.URL, entry.Method, entry.StatusCode, entry.Highlight, entry.Comment, entry.BodySize, entry.CreatedAt)
	if err != nil {
		log.Errorf("failed to insert into duckdb: %v", err)
		return err
	}

	doc := struct {
		ID      string
		URL     string
		Method  string
		Status  int
		Comment string
		Preview string
	}{
		ID:      entry.ID,
		URL:     entry.URL,
		Method:  entry.Method,
		Status:  entry.StatusCode,
		Comment: entry.Comment,
		Preview: entry.Preview,
	}

	if err := s.index.Index(entry.ID, doc); err != nil {
		log.Errorf("failed to index in bleve: %v", err)
		return err
	}

	return nil
}

// Search runs a bleve query string over the index and loads the matching
// entries from DuckDB.
func (s *Service) Search(queryStr string) ([]*Entry, error) {
	query := bleve.NewQueryStringQuery(queryStr)
	searchRequest := bleve.NewSearchRequest(query)
	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	if searchResult.Total == 0 {
		return []*Entry{}, nil
	}

	results := make([]*Entry, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		row := s.db.QueryRow(`
			SELECT id, url, method, status_code, highlight, comment, body_size, created_at
			FROM rewrites WHERE id = ?
		`, hit.ID)

		var e Entry
		err := row.Scan(&e.ID, &e.URL, &e.Method, &e.StatusCode, &e.Highlight, &e.Comment, &e.BodySize, &e.CreatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, err
		}
		results = append(results, &e)
	}

	return results, nil
}
