package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"housepoints/internal/domain"
)

type CertificateRepo struct {
	db *sql.DB
}

func NewCertificateRepo(db *sql.DB) *CertificateRepo {
	return &CertificateRepo{db: db}
}

const certificateColumns = `id, owner_id, owner_role, name, organization, cert_type, level,
	issue_month, issue_year, expires, expiration_month, expiration_year,
	upload_type, artifact_ref, external_url, md5, sha256,
	status, awarded_points, resubmitted_at, created_at, updated_at`

func (r *CertificateRepo) Create(ctx context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	now := time.Now().UTC()
	var expMonth, expYear sql.NullInt64
	if c.ExpirationDate != nil {
		expMonth = sql.NullInt64{Int64: int64(c.ExpirationDate.Month), Valid: true}
		expYear = sql.NullInt64{Int64: int64(c.ExpirationDate.Year), Valid: true}
	}
	var md5Hash, sha256Hash *string
	if c.Hashes != nil {
		md5Hash, sha256Hash = &c.Hashes.MD5, &c.Hashes.SHA256
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO certificates (id, owner_id, owner_role, name, organization, cert_type, level,
			issue_month, issue_year, expires, expiration_month, expiration_year,
			upload_type, artifact_ref, external_url, md5, sha256, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, string(c.OwnerRole), c.Name, c.Organization,
		string(c.Type), string(c.Level),
		c.IssueDate.Month, c.IssueDate.Year, boolToInt(c.Expires), expMonth, expYear,
		string(c.UploadType), nullString(c.ArtifactRef), nullString(c.ExternalURL),
		nullString(md5Hash), nullString(sha256Hash),
		string(domain.StatusPending), now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id = ?`, id)
	return scanCertificate(row)
}

func (r *CertificateRepo) List(ctx context.Context, filter domain.CertificateFilter) ([]domain.Certificate, int64, error) {
	where := `WHERE 1=1`
	var args []interface{}
	if filter.OwnerID != nil {
		where += ` AND c.owner_id = ?`
		args = append(args, *filter.OwnerID)
	}
	if filter.OwnerRole != nil {
		where += ` AND c.owner_role = ?`
		args = append(args, string(*filter.OwnerRole))
	}
	if filter.HouseID != nil {
		where += ` AND c.owner_id IN (SELECT id FROM principals WHERE house_id = ?)`
		args = append(args, *filter.HouseID)
	}
	if filter.Status != nil {
		where += ` AND c.status = ?`
		args = append(args, string(*filter.Status))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM certificates c `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM certificates c %s ORDER BY c.created_at DESC, c.id LIMIT ? OFFSET ?`,
		qualifyColumns("c"), where)
	rows, err := r.db.QueryContext(ctx, query,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var certs []domain.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, 0, err
		}
		certs = append(certs, *c)
	}
	return certs, total, rows.Err()
}

// UpdatePayload replaces the owner-supplied fields and resets status to
// pending. The fromStatus guard re-checks the state at commit time: if a
// concurrent transition won the race the update misses and the caller
// gets InvalidStateError.
func (r *CertificateRepo) UpdatePayload(ctx context.Context, id string, p domain.CertificatePayload, fromStatus domain.CertificateStatus) (*domain.Certificate, error) {
	now := time.Now().UTC()
	var expMonth, expYear sql.NullInt64
	if p.ExpirationDate != nil {
		expMonth = sql.NullInt64{Int64: int64(p.ExpirationDate.Month), Valid: true}
		expYear = sql.NullInt64{Int64: int64(p.ExpirationDate.Year), Valid: true}
	}
	var md5Hash, sha256Hash *string
	if p.Hashes != nil {
		md5Hash, sha256Hash = &p.Hashes.MD5, &p.Hashes.SHA256
	}
	var resubmittedAt interface{}
	if fromStatus == domain.StatusRejected {
		resubmittedAt = now
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE certificates SET
			name = ?, organization = ?, cert_type = ?, level = ?,
			issue_month = ?, issue_year = ?, expires = ?, expiration_month = ?, expiration_year = ?,
			upload_type = ?, artifact_ref = ?, external_url = ?, md5 = ?, sha256 = ?,
			status = ?, resubmitted_at = COALESCE(?, resubmitted_at), updated_at = ?
		 WHERE id = ? AND status = ?`,
		p.Name, p.Organization, string(p.Type), string(p.Level),
		p.IssueDate.Month, p.IssueDate.Year, boolToInt(p.Expires), expMonth, expYear,
		string(p.UploadType), nullString(p.ArtifactRef), nullString(p.ExternalURL),
		nullString(md5Hash), nullString(sha256Hash),
		string(domain.StatusPending), resubmittedAt, now,
		id, string(fromStatus))
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := r.requireHit(ctx, res, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Approve transitions the certificate to approved and appends the ledger
// entry in a single transaction: either both happen or neither does. A
// concurrent approval loses the status guard and gets InvalidStateError;
// a retried ledger write collides with the UNIQUE certificate index and
// gets DuplicateEntryError.
func (r *CertificateRepo) Approve(ctx context.Context, id string, points int, entry *domain.PointEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE certificates SET status = ?, awarded_points = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(domain.StatusApproved), points, now, id, string(domain.StatusPending))
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Query through the transaction: the write pool has a single
		// connection and it is held by tx until commit or rollback.
		return stateErrorOn(ctx, tx, id)
	}

	if entry.ID == "" {
		entry.ID = domain.NewID()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO point_entries (id, certificate_id, house_id, member_id, category, points, year, month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.CertificateID, entry.HouseID, entry.MemberID,
		string(entry.Category), entry.Points, entry.Year, entry.Month, now); err != nil {
		return mapDBError(err)
	}

	return tx.Commit()
}

func (r *CertificateRepo) Reject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE certificates SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(domain.StatusRejected), time.Now().UTC(), id, string(domain.StatusPending))
	if err != nil {
		return mapDBError(err)
	}
	return r.requireHit(ctx, res, id)
}

// Delete removes a certificate that has not been approved. Approved
// certificates and their awarded points are permanent.
func (r *CertificateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM certificates WHERE id = ? AND status != ?`,
		id, string(domain.StatusApproved))
	if err != nil {
		return mapDBError(err)
	}
	return r.requireHit(ctx, res, id)
}

func (r *CertificateRepo) AddComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO certificate_comments (id, certificate_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.CertificateID, c.AuthorID, c.Body, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	c.CreatedAt = now
	return c, nil
}

func (r *CertificateRepo) ListComments(ctx context.Context, certificateID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, certificate_id, author_id, body, created_at
		 FROM certificate_comments WHERE certificate_id = ? ORDER BY created_at, id`,
		certificateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.CertificateID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// requireHit distinguishes a missed status guard from a missing row.
func (r *CertificateRepo) requireHit(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.stateError(ctx, id)
	}
	return nil
}

func (r *CertificateRepo) stateError(ctx context.Context, id string) error {
	return stateErrorOn(ctx, r.db, id)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func stateErrorOn(ctx context.Context, q rowQuerier, id string) error {
	var status string
	err := q.QueryRowContext(ctx,
		`SELECT status FROM certificates WHERE id = ?`, id).Scan(&status)
	if err != nil {
		return domain.ErrNotFound("certificate %s not found", id)
	}
	return domain.ErrInvalidState("certificate %s is %s", id, status)
}

func qualifyColumns(alias string) string {
	return alias + `.id, ` + alias + `.owner_id, ` + alias + `.owner_role, ` + alias + `.name, ` +
		alias + `.organization, ` + alias + `.cert_type, ` + alias + `.level, ` +
		alias + `.issue_month, ` + alias + `.issue_year, ` + alias + `.expires, ` +
		alias + `.expiration_month, ` + alias + `.expiration_year, ` +
		alias + `.upload_type, ` + alias + `.artifact_ref, ` + alias + `.external_url, ` +
		alias + `.md5, ` + alias + `.sha256, ` + alias + `.status, ` + alias + `.awarded_points, ` +
		alias + `.resubmitted_at, ` + alias + `.created_at, ` + alias + `.updated_at`
}

func scanCertificate(row rowScanner) (*domain.Certificate, error) {
	var c domain.Certificate
	var ownerRole, certType, level, uploadType, status string
	var expires int64
	var expMonth, expYear, awarded sql.NullInt64
	var artifactRef, externalURL, md5Hash, sha256Hash sql.NullString
	var resubmittedAt sql.NullTime

	if err := row.Scan(&c.ID, &c.OwnerID, &ownerRole, &c.Name, &c.Organization,
		&certType, &level, &c.IssueDate.Month, &c.IssueDate.Year, &expires,
		&expMonth, &expYear, &uploadType, &artifactRef, &externalURL,
		&md5Hash, &sha256Hash, &status, &awarded, &resubmittedAt,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}

	c.OwnerRole = domain.Role(ownerRole)
	c.Type = domain.CertificateType(certType)
	c.Level = domain.CertificateLevel(level)
	c.UploadType = domain.UploadType(uploadType)
	c.Status = domain.CertificateStatus(status)
	c.Expires = expires != 0
	if expMonth.Valid && expYear.Valid {
		c.ExpirationDate = &domain.MonthDate{Month: int(expMonth.Int64), Year: int(expYear.Int64)}
	}
	c.ArtifactRef = fromNullString(artifactRef)
	c.ExternalURL = fromNullString(externalURL)
	if md5Hash.Valid && sha256Hash.Valid {
		c.Hashes = &domain.ContentHashes{MD5: md5Hash.String, SHA256: sha256Hash.String}
	}
	if awarded.Valid {
		points := int(awarded.Int64)
		c.AwardedPoints = &points
	}
	if resubmittedAt.Valid {
		t := resubmittedAt.Time
		c.ResubmittedAt = &t
	}
	return &c, nil
}
