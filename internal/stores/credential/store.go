package credential

import (
	"context"
	"fmt"
	"log"

	sqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/utils"
)

// Store handles durable storage of the token set and organization config
// using MySQL. Each value is replaced wholesale; there is no merge.
type Store struct {
	db        *gorm.DB
	namespace string
}

// Compile-time interface satisfaction check.
var _ xero.CredentialStorage = (*Store)(nil)

// NewStore creates a new credential store with a MySQL connection. The
// namespace scopes all keys so multiple deployments can share a database.
func NewStore(databaseURL, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, namespace: namespace}

	// Auto-migrate tables
	if err := store.db.AutoMigrate(&BlobModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// NewStoreFromConfig builds a credential store from configuration, falling
// back to the in-memory store when no database is configured.
func NewStoreFromConfig(cfg *utils.Config) (xero.CredentialStorage, error) {
	namespace := cfg.GetWithDefault("STORE_NAMESPACE", "xero-auth")

	dbConfig := sqldriver.Config{
		User:      cfg.Get("MYSQL_USER"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}

	if dbConfig.DBName == "" {
		log.Println("[STORE]: Warning, MYSQL_DATABASE not set, using in-memory store (credentials will not persist across restarts)")
		return NewInMemoryStore(), nil
	}

	return NewStore(dbConfig.FormatDSN(), namespace)
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var model BlobModel
	result := s.db.WithContext(ctx).Where("namespace = ? AND blob_key = ?", s.namespace, key).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get '%s': %w", key, result.Error)
	}
	return model.Value, nil
}

func (s *Store) set(ctx context.Context, key string, value []byte) error {
	var existing BlobModel
	result := s.db.WithContext(ctx).Where("namespace = ? AND blob_key = ?", s.namespace, key).First(&existing)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check existing '%s': %w", key, result.Error)
		}
		if err := s.db.WithContext(ctx).Create(&BlobModel{
			Namespace: s.namespace,
			Key:       key,
			Value:     value,
		}).Error; err != nil {
			return fmt.Errorf("failed to create '%s': %w", key, err)
		}
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&existing).Update("value", value).Error; err != nil {
		return fmt.Errorf("failed to update '%s': %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("namespace = ? AND blob_key = ?", s.namespace, key).Delete(&BlobModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete '%s': %w", key, result.Error)
	}
	return nil
}

// GetTokens retrieves the stored token set, or nil when none is stored.
func (s *Store) GetTokens(ctx context.Context) (*xero.TokenSet, error) {
	return getTokens(ctx, s)
}

// SaveTokens replaces the stored token set.
func (s *Store) SaveTokens(ctx context.Context, tokens *xero.TokenSet) error {
	return saveTokens(ctx, s, tokens)
}

// GetConfig retrieves the stored organization config, or nil when none is stored.
func (s *Store) GetConfig(ctx context.Context) (*xero.OrgConfig, error) {
	return getConfig(ctx, s)
}

// SaveConfig replaces the stored organization config.
func (s *Store) SaveConfig(ctx context.Context, config *xero.OrgConfig) error {
	return saveConfig(ctx, s, config)
}

// Clear removes both the token set and the organization config.
func (s *Store) Clear(ctx context.Context) error {
	return clearAll(ctx, s)
}
