package chromium

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ericfisherdev/credsweep/internal/adapter/driven/blobcipher"
	"github.com/ericfisherdev/credsweep/internal/domain/model"
	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

const loginsQuery = `SELECT origin_url, username_value, password_value FROM logins`

// Compile-time interface satisfaction check.
var _ driven.ChromiumStoreReader = (*StoreReader)(nil)

// StoreReader extracts saved logins from one Chromium login database. The
// live database may be locked by a running browser, so each read works on a
// uniquely named temporary copy that is removed before returning.
type StoreReader struct {
	cipher *blobcipher.Cipher
	keys   *KeyResolver
	logger *slog.Logger

	// TempDir overrides the copy location; empty means os.TempDir().
	TempDir string
}

// NewStoreReader creates a StoreReader decrypting rows with cipher under a
// master key resolved once per store by keys.
func NewStoreReader(cipher *blobcipher.Cipher, keys *KeyResolver, logger *slog.Logger) *StoreReader {
	return &StoreReader{cipher: cipher, keys: keys, logger: logger}
}

// Read copies the store, queries the logins table, and decrypts each row.
// It never fails as a whole: a source-level failure (copy, open, query,
// Local State parse) returns zero entries and one error; a row-level
// failure returns a placeholder entry plus one error and continues. Every
// row read yields exactly one entry.
func (r *StoreReader) Read(ctx context.Context, storePath string) ([]model.DecryptedEntry, []string) {
	var entries []model.DecryptedEntry
	var errs []string

	tmp := filepath.Join(r.tempDir(), fmt.Sprintf("logindata-%s.db", uuid.NewString()))
	if err := copyFile(storePath, tmp); err != nil {
		return nil, []string{fmt.Sprintf("copy %s: %v", storePath, err)}
	}
	defer func() {
		if err := os.Remove(tmp); err != nil {
			r.logger.Warn("failed to remove login database copy", "path", tmp, "error", err)
		}
	}()

	masterKey, err := r.keys.ResolveMasterKey(storePath)
	if err != nil {
		return nil, []string{fmt.Sprintf("resolve master key for %s: %v", storePath, err)}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", tmp))
	if err != nil {
		return nil, []string{fmt.Sprintf("open %s: %v", tmp, err)}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, loginsQuery)
	if err != nil {
		return nil, []string{fmt.Sprintf("query logins in %s: %v", storePath, err)}
	}
	defer rows.Close()

	rowNum := 0
	for rows.Next() {
		rowNum++
		var origin, username string
		var rawSecret []byte
		if err := rows.Scan(&origin, &username, &rawSecret); err != nil {
			errs = append(errs, fmt.Sprintf("scan row %d in %s: %v", rowNum, storePath, err))
			continue
		}

		secret, ok, err := r.cipher.Decrypt(rawSecret, masterKey)
		if err != nil {
			errs = append(errs, fmt.Sprintf("decrypt row %d (%s): %v", rowNum, origin, err))
			entries = append(entries, model.DecryptedEntry{Origin: origin, Username: username})
			continue
		}
		entries = append(entries, model.DecryptedEntry{
			Origin:    origin,
			Username:  username,
			Secret:    secret,
			Decrypted: ok,
		})
	}
	if err := rows.Err(); err != nil {
		errs = append(errs, fmt.Sprintf("iterate logins in %s: %v", storePath, err))
	}

	return entries, errs
}

func (r *StoreReader) tempDir() string {
	if r.TempDir != "" {
		return r.TempDir
	}
	return os.TempDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
