package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
)

// DefaultRules is the school's standard rule catalog
var DefaultRules = []models.Rule{
	{Description: "Makan Dan Minum Di Dalam Ruang Kelas", Category: models.CategoryLight, Points: 5},
	{Description: "Terlambat Masuk Sekolah Maupun Masuk Kelas", Category: models.CategoryLight, Points: 5},
	{Description: "Memodifikasi Knalpot Kendaraan", Category: models.CategoryLight, Points: 10},
	{Description: "Tidak Mengikuti Upacara Bendera", Category: models.CategoryLight, Points: 10},
	{Description: "Membawa Senjata Tajam Kesekolah (Bukan Untuk Praktek)", Category: models.CategoryMedium, Points: 25},
	{Description: "Mengotori Dan Merusak Fasilitas Sekolah", Category: models.CategoryMedium, Points: 25},
	{Description: "Keluar Pekarangan Sekolah Dengan Melompati Pagar", Category: models.CategoryMedium, Points: 50},
	{Description: "Berkelahi Atau Tawuran Antara Peserta Didik Satu Sekolah Atau Dengan Sekolah Lain", Category: models.CategoryMedium, Points: 50},
	{Description: "Berjudi, Membawa Dan Meminum Minuman Keras", Category: models.CategorySevere, Points: 75},
	{Description: "Melakukan Tindakan Pemalsuan Administrasi", Category: models.CategorySevere, Points: 75},
	{Description: "Menggunakan Dan Atau Mengedarkan Narkoba", Category: models.CategorySevere, Points: 100},
	{Description: "Melakukan Pergaulan Bebas Dengan Segala Resikonya", Category: models.CategorySevere, Points: 100},
}

// DefaultClasses are the classes created on an empty database
var DefaultClasses = []models.Class{
	{Name: "X - DPIB", StudentCapacity: intPtr(25)},
	{Name: "X - TGS", StudentCapacity: intPtr(25)},
	{Name: "X - BKP", StudentCapacity: intPtr(25)},
	{Name: "XI - TITL", StudentCapacity: intPtr(24)},
	{Name: "XI - TPL", StudentCapacity: intPtr(24)},
	{Name: "XI - TKRO", StudentCapacity: intPtr(24)},
	{Name: "XII - RPL", StudentCapacity: intPtr(27)},
	{Name: "XII - TKJ", StudentCapacity: intPtr(27)},
	{Name: "XII - TPM", StudentCapacity: intPtr(27)},
}

func intPtr(v int) *int { return &v }

// RuleStore is the subset of the rule repository used for seeding
type RuleStore interface {
	Create(ctx context.Context, rule *models.Rule) (int64, error)
	List(ctx context.Context) ([]*models.Rule, error)
}

// ClassStore is the subset of the class repository used for seeding
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) (int64, error)
	List(ctx context.Context) ([]*models.Class, error)
}

// CreateDefaultData fills the rule catalog and class list when they are
// empty. Existing data is never touched.
func CreateDefaultData(ctx context.Context, rules RuleStore, classes ClassStore, lgr zerolog.Logger) error {
	var finalErr error

	existingRules, err := rules.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing rules: %w", err)
	}
	if len(existingRules) == 0 {
		lgr.Info().Int("count", len(DefaultRules)).Msg("Seeding default rules")
		for i := range DefaultRules {
			rule := DefaultRules[i]
			if _, err := rules.Create(ctx, &rule); err != nil {
				lgr.Error().Err(err).Str("rule", rule.Description).Msg("Error creating default rule")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	existingClasses, err := classes.List(ctx)
	if err != nil {
		return errors.Join(finalErr, fmt.Errorf("error listing classes: %w", err))
	}
	if len(existingClasses) == 0 {
		lgr.Info().Int("count", len(DefaultClasses)).Msg("Seeding default classes")
		for i := range DefaultClasses {
			class := DefaultClasses[i]
			if _, err := classes.Create(ctx, &class); err != nil {
				lgr.Error().Err(err).Str("class", class.Name).Msg("Error creating default class")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	return finalErr
}
