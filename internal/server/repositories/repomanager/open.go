package repomanager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/server/blob"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// Storage kinds.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageS3       = "s3"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

const (
	usersDocument = "users.json"
	notesDocument = "notes.json"
)

type Options struct {
	Storage       string
	DataDir       string
	DatabaseDSN   string
	MongoURL      string
	MongoDatabase string
	S3            blob.S3Settings
}

// NewDocumentRepositoryManager keeps users and notes as JSON documents.
func NewDocumentRepositoryManager(usersStore, notesStore blob.Store) RepositoryManager {
	return &simpleManager{
		users: users.NewDocumentRepository(usersStore),
		notes: notes.NewDocumentRepository(notesStore),
	}
}

var newS3Client = blob.NewS3Client

// Open builds the manager for opts.Storage.
func Open(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Storage {
	case StorageMemory:
		return NewMemoryRepositoryManager(), nil

	case StorageFile:
		dir, err := filex.EnsureDir(opts.DataDir)
		if err != nil {
			return nil, err
		}
		return NewDocumentRepositoryManager(
			blob.NewFileStore(filepath.Join(dir, usersDocument)),
			blob.NewFileStore(filepath.Join(dir, notesDocument)),
		), nil

	case StorageS3:
		client, err := newS3Client(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return NewDocumentRepositoryManager(
			blob.NewS3Store(client, opts.S3.Bucket, blob.ObjectKey(opts.S3.Prefix, usersDocument)),
			blob.NewS3Store(client, opts.S3.Bucket, blob.ObjectKey(opts.S3.Prefix, notesDocument)),
		), nil

	case StoragePostgres:
		m, err := OpenPostgres(ctx, opts.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil

	case StorageMongo:
		return OpenMongo(ctx, opts.MongoURL, opts.MongoDatabase)
	}

	return nil, fmt.Errorf("unknown storage %q", opts.Storage)
}
