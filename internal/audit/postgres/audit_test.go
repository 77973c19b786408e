package postgres

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditpkg "github.com/merchantops/paytm-gateway/internal/audit"
	"github.com/merchantops/paytm-gateway/internal/core/datamodel/audit"
)

func TestAuditRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Repository Suite")
}

// OperationLogSQLite drops the postgres column defaults for SQLite
type OperationLogSQLite struct {
	ID          int64     `gorm:"primaryKey"`
	Operation   string    `gorm:"column:operation;not null;index"`
	Reference   string    `gorm:"column:reference;index"`
	Outcome     string    `gorm:"column:outcome;not null"`
	GatewayCode string    `gorm:"column:gateway_code"`
	DurationMS  int64     `gorm:"column:duration_ms;not null"`
	TraceID     string    `gorm:"column:trace_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (OperationLogSQLite) TableName() string {
	return "gateway_audit_logs"
}

var _ = ginkgo.Describe("AuditRepository", func() {
	var (
		db   *gorm.DB
		repo auditpkg.RepositoryAPI
	)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(&OperationLogSQLite{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repo = NewAuditRepository(db)
	})

	entry := func(operation, reference, outcome string, age time.Duration) *audit.OperationLog {
		return &audit.OperationLog{
			Operation:   operation,
			Reference:   reference,
			Outcome:     outcome,
			GatewayCode: "",
			DurationMS:  42,
			CreatedAt:   time.Now().UTC().Add(-age),
		}
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("inserts an entry and assigns an ID", func() {
			log := entry("create_payment_link", "lunch_Alice", "SUCCESS", 0)

			err := repo.Create(log)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(log.ID).To(gomega.BeNumerically(">", 0))
		})
	})

	ginkgo.Describe("ListByOperation", func() {
		ginkgo.It("returns only entries for the requested operation, newest first", func() {
			gomega.Expect(repo.Create(entry("create_payment_link", "a", "SUCCESS", 2*time.Hour))).To(gomega.Succeed())
			gomega.Expect(repo.Create(entry("create_payment_link", "b", "GATEWAY_ERROR", time.Hour))).To(gomega.Succeed())
			gomega.Expect(repo.Create(entry("fetch_payment_links", "", "SUCCESS", time.Minute))).To(gomega.Succeed())

			logs, err := repo.ListByOperation("create_payment_link", 10)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(logs).To(gomega.HaveLen(2))
			gomega.Expect(logs[0].Reference).To(gomega.Equal("b"))
			gomega.Expect(logs[1].Reference).To(gomega.Equal("a"))
		})

		ginkgo.It("honors the limit", func() {
			for i := 0; i < 5; i++ {
				gomega.Expect(repo.Create(entry("initiate_refund", "O1", "SUCCESS", time.Duration(i)*time.Minute))).To(gomega.Succeed())
			}

			logs, err := repo.ListByOperation("initiate_refund", 3)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(logs).To(gomega.HaveLen(3))
		})
	})

	ginkgo.Describe("ListByReference", func() {
		ginkgo.It("returns every entry touching one reference", func() {
			gomega.Expect(repo.Create(entry("initiate_refund", "O1", "SUCCESS", time.Hour))).To(gomega.Succeed())
			gomega.Expect(repo.Create(entry("fetch_refund_status", "O1", "SUCCESS", time.Minute))).To(gomega.Succeed())
			gomega.Expect(repo.Create(entry("fetch_refund_status", "O2", "NOT_FOUND", time.Minute))).To(gomega.Succeed())

			logs, err := repo.ListByReference("O1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(logs).To(gomega.HaveLen(2))
		})
	})
})
