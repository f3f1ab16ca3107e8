package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	categorysvc "github.com/cakpo-corneille/niasotac/internal/categories"
	offeringsvc "github.com/cakpo-corneille/niasotac/internal/offerings"
	productsvc "github.com/cakpo-corneille/niasotac/internal/products"
	promotionsvc "github.com/cakpo-corneille/niasotac/internal/promotions"
	settingsvc "github.com/cakpo-corneille/niasotac/internal/settings"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/migrate"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type categoryAncestry struct {
	categories categorysvc.Service
}

func (a categoryAncestry) AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	chain, err := a.categories.Ancestors(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(chain))
	for _, node := range chain {
		ids = append(ids, node.ID)
	}
	return ids, nil
}

type seedProduct struct {
	name     string
	brand    string
	category string
	price    string
	compare  string
	features []string
	inStock  bool
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	clear := flag.Bool("clear", false, "delete existing showcase data before seeding")
	flag.Parse()

	cfg, err := config.Load()
	fatalOn(ctx, logg, "failed to load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalOn(ctx, logg, "failed to bootstrap database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		fatalOn(ctx, logg, "failed to run dev migrations", err)
	}

	gormDB := dbClient.DB()

	if *clear {
		// Children before parents, the FKs are not cascading.
		for _, table := range []string{
			"product_images", "product_statuses", "promotions",
			"products", "categories", "offerings",
		} {
			if err := dbClient.Exec(ctx, "DELETE FROM "+table).Error; err != nil {
				fatalOn(ctx, logg, "failed to clear table "+table, err)
			}
		}
		logg.Info(ctx, "existing showcase data cleared")
	}

	categoryService, err := categorysvc.NewService(categorysvc.NewRepository(gormDB), dbClient, nil, 0)
	fatalOn(ctx, logg, "failed to create categories service", err)

	promotionService, err := promotionsvc.NewService(
		promotionsvc.NewRepository(gormDB), categoryAncestry{categories: categoryService}, nil,
	)
	fatalOn(ctx, logg, "failed to create promotions service", err)

	productService, err := productsvc.NewService(
		productsvc.NewRepository(gormDB), dbClient, cfg.Catalog, categoryService, promotionService, nil,
	)
	fatalOn(ctx, logg, "failed to create products service", err)

	offeringService, err := offeringsvc.NewService(offeringsvc.NewRepository(gormDB))
	fatalOn(ctx, logg, "failed to create services service", err)

	settingsService, err := settingsvc.NewService(gormDB)
	fatalOn(ctx, logg, "failed to create settings service", err)

	categories := seedCategories(ctx, logg, categoryService)
	products := seedProducts(ctx, logg, productService, categories)
	seedPromotions(ctx, logg, promotionService, categories, products)
	seedOfferings(ctx, logg, offeringService)
	seedSettings(ctx, logg, settingsService)

	if _, err := productService.RefreshScores(ctx); err != nil {
		fatalOn(ctx, logg, "failed to score seeded products", err)
	}

	logg.Info(ctx, "seed complete")
}

func seedCategories(ctx context.Context, logg *logger.Logger, svc categorysvc.Service) map[string]uuid.UUID {
	roots := []struct {
		name        string
		description string
		children    []string
	}{
		{"Ordinateurs", "PC portables et ordinateurs de bureau", []string{"PC portables", "PC de bureau", "PC gamer"}},
		{"Composants PC", "Pièces détachées et composants", []string{"Disques et SSD", "Mémoire RAM", "Cartes graphiques"}},
		{"Imprimantes", "Impression jet d'encre et laser", []string{"Jet d'encre", "Laser", "Cartouches et toners"}},
		{"Accessoires", "Claviers, souris, casques et plus", nil},
		{"Réseau", "Routeurs, switchs et câblage", nil},
	}

	ids := make(map[string]uuid.UUID)
	for order, root := range roots {
		parent, err := svc.CreateCategory(ctx, categorysvc.CreateCategoryInput{
			Name:         root.name,
			Description:  root.description,
			DisplayOrder: order,
			IsActive:     true,
		})
		fatalOn(ctx, logg, "failed to seed category "+root.name, err)
		ids[root.name] = parent.ID

		for childOrder, childName := range root.children {
			child, err := svc.CreateCategory(ctx, categorysvc.CreateCategoryInput{
				Name:         childName,
				ParentID:     &parent.ID,
				DisplayOrder: childOrder,
				IsActive:     true,
			})
			fatalOn(ctx, logg, "failed to seed category "+childName, err)
			ids[childName] = child.ID
		}
	}

	logg.Info(logg.WithField(ctx, "count", len(ids)), "categories seeded")
	return ids
}

func seedProducts(
	ctx context.Context,
	logg *logger.Logger,
	svc productsvc.Service,
	categories map[string]uuid.UUID,
) map[string]uuid.UUID {
	rows := []seedProduct{
		{"PC portable HP 15s", "HP", "PC portables", "385000", "", []string{"Core i5", "8 Go RAM", "SSD 512 Go"}, true},
		{"PC portable Lenovo IdeaPad 3", "Lenovo", "PC portables", "320000", "350000", []string{"Ryzen 5", "8 Go RAM"}, true},
		{"PC portable Dell Inspiron 14", "Dell", "PC portables", "410000", "", []string{"Core i7", "16 Go RAM"}, true},
		{"MacBook Air M2", "Apple", "PC portables", "780000", "", []string{"Puce M2", "8 Go RAM", "SSD 256 Go"}, false},
		{"PC gamer Asus TUF F15", "Asus", "PC gamer", "650000", "720000", []string{"RTX 4050", "16 Go RAM", "144 Hz"}, true},
		{"PC gamer Acer Nitro 5", "Acer", "PC gamer", "590000", "", []string{"RTX 3050", "16 Go RAM"}, true},
		{"PC de bureau HP ProDesk", "HP", "PC de bureau", "260000", "", []string{"Core i5", "8 Go RAM"}, true},
		{"PC de bureau Dell OptiPlex", "Dell", "PC de bureau", "295000", "315000", []string{"Core i5", "SSD 256 Go"}, true},
		{"SSD Samsung 980 1 To", "Samsung", "Disques et SSD", "55000", "65000", []string{"NVMe", "3500 Mo/s"}, true},
		{"SSD Kingston NV2 500 Go", "Kingston", "Disques et SSD", "28000", "", []string{"NVMe"}, true},
		{"Disque dur Seagate 2 To", "Seagate", "Disques et SSD", "42000", "", nil, true},
		{"RAM Corsair Vengeance 16 Go", "Corsair", "Mémoire RAM", "38000", "", []string{"DDR4", "3200 MHz"}, true},
		{"RAM Kingston Fury 8 Go", "Kingston", "Mémoire RAM", "19000", "22000", []string{"DDR4"}, true},
		{"Carte graphique RTX 4060", "MSI", "Cartes graphiques", "240000", "", []string{"8 Go GDDR6"}, true},
		{"Carte graphique GTX 1650", "Gigabyte", "Cartes graphiques", "125000", "140000", []string{"4 Go GDDR6"}, false},
		{"Imprimante HP DeskJet 2720", "HP", "Jet d'encre", "45000", "", []string{"Wi-Fi", "Scanner"}, true},
		{"Imprimante Canon PIXMA G2420", "Canon", "Jet d'encre", "95000", "105000", []string{"Réservoir rechargeable"}, true},
		{"Imprimante Epson EcoTank L3250", "Epson", "Jet d'encre", "115000", "", []string{"Wi-Fi", "Réservoir"}, true},
		{"Imprimante laser HP 107a", "HP", "Laser", "85000", "", []string{"Monochrome"}, true},
		{"Imprimante laser Brother HL-L2350DW", "Brother", "Laser", "110000", "125000", []string{"Recto verso", "Wi-Fi"}, true},
		{"Toner HP 106A", "HP", "Cartouches et toners", "22000", "", nil, true},
		{"Cartouche Canon PG-445", "Canon", "Cartouches et toners", "9500", "", nil, true},
		{"Clavier Logitech K120", "Logitech", "Accessoires", "7500", "", []string{"AZERTY", "USB"}, true},
		{"Souris Logitech M185", "Logitech", "Accessoires", "8500", "10000", []string{"Sans fil"}, true},
		{"Casque HyperX Cloud Stinger", "HyperX", "Accessoires", "32000", "", []string{"Micro antibruit"}, true},
		{"Webcam Logitech C270", "Logitech", "Accessoires", "18000", "", []string{"720p"}, true},
		{"Sacoche Targus 15.6\"", "Targus", "Accessoires", "12000", "", nil, true},
		{"Routeur TP-Link Archer C6", "TP-Link", "Réseau", "28000", "32000", []string{"Wi-Fi AC1200"}, true},
		{"Switch TP-Link 8 ports", "TP-Link", "Réseau", "15000", "", []string{"Gigabit"}, true},
		{"Câble réseau Cat6 20 m", "Ugreen", "Réseau", "6500", "", nil, true},
	}

	ids := make(map[string]uuid.UUID)
	for _, row := range rows {
		categoryID, ok := categories[row.category]
		if !ok {
			fatalOn(ctx, logg, "unknown seed category "+row.category, fmt.Errorf("category not seeded"))
		}

		price, err := decimal.NewFromString(row.price)
		fatalOn(ctx, logg, "bad seed price for "+row.name, err)

		input := productsvc.CreateProductInput{
			Name:       row.name,
			Brand:      row.brand,
			Features:   row.features,
			CategoryID: categoryID,
			Price:      price,
			InStock:    row.inStock,
			IsActive:   true,
		}
		if row.compare != "" {
			compare, err := decimal.NewFromString(row.compare)
			fatalOn(ctx, logg, "bad seed compare price for "+row.name, err)
			input.CompareAtPrice = &compare
		}

		product, err := svc.CreateProduct(ctx, input)
		fatalOn(ctx, logg, "failed to seed product "+row.name, err)
		ids[row.name] = product.ID
	}

	logg.Info(logg.WithField(ctx, "count", len(ids)), "products seeded")
	return ids
}

func seedPromotions(
	ctx context.Context,
	logg *logger.Logger,
	svc promotionsvc.Service,
	categories map[string]uuid.UUID,
	products map[string]uuid.UUID,
) {
	now := time.Now()
	gamerID := categories["PC gamer"]
	routerID := products["Routeur TP-Link Archer C6"]

	rows := []promotionsvc.CreatePromotionInput{
		{
			Name:          "Rentrée des classes",
			Description:   "-10% sur toute la boutique",
			Scope:         enums.PromotionScopeAll,
			DiscountType:  enums.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(10),
			StartsAt:      now.AddDate(0, 0, -7),
			EndsAt:        now.AddDate(0, 0, 21),
			IsActive:      true,
		},
		{
			Name:          "Promo gaming",
			Description:   "-15% sur les PC gamer",
			Scope:         enums.PromotionScopeCategory,
			CategoryID:    &gamerID,
			DiscountType:  enums.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(15),
			StartsAt:      now.AddDate(0, 0, -3),
			EndsAt:        now.AddDate(0, 0, 14),
			IsActive:      true,
		},
		{
			Name:          "Offre réseau",
			Description:   "5000 FCFA de remise sur le routeur Archer C6",
			Scope:         enums.PromotionScopeProduct,
			ProductID:     &routerID,
			DiscountType:  enums.DiscountTypeFixed,
			DiscountValue: decimal.NewFromInt(5000),
			StartsAt:      now.AddDate(0, 0, -1),
			EndsAt:        now.AddDate(0, 0, 7),
			IsActive:      true,
		},
	}

	for _, input := range rows {
		_, err := svc.CreatePromotion(ctx, input)
		fatalOn(ctx, logg, "failed to seed promotion "+input.Name, err)
	}

	logg.Info(logg.WithField(ctx, "count", len(rows)), "promotions seeded")
}

func seedOfferings(ctx context.Context, logg *logger.Logger, svc offeringsvc.Service) {
	rows := []offeringsvc.CreateOfferingInput{
		{Title: "Réparation d'ordinateurs", Description: "Diagnostic et réparation de PC portables et de bureau.", Icon: "wrench", DisplayOrder: 0, IsActive: true},
		{Title: "Installation réseau", Description: "Câblage, configuration de routeurs et de switchs.", Icon: "network", DisplayOrder: 1, IsActive: true},
		{Title: "Maintenance informatique", Description: "Contrats d'entretien pour entreprises et particuliers.", Icon: "shield", DisplayOrder: 2, IsActive: true},
		{Title: "Vente de consommables", Description: "Cartouches, toners et papiers pour toutes les marques.", Icon: "printer", DisplayOrder: 3, IsActive: true},
	}

	for _, input := range rows {
		_, err := svc.CreateOffering(ctx, input)
		fatalOn(ctx, logg, "failed to seed service "+input.Title, err)
	}

	logg.Info(logg.WithField(ctx, "count", len(rows)), "services seeded")
}

func seedSettings(ctx context.Context, logg *logger.Logger, svc settingsvc.Service) {
	siteName := "NIASOTAC"
	tagline := "Votre partenaire informatique à Cotonou"
	whatsApp := "+22990000000"
	email := "contact@niasotac.com"
	address := "Cotonou, Bénin"
	hours := "Lun-Sam 8h-19h"

	_, err := svc.Update(ctx, settingsvc.UpdateSettingsInput{
		SiteName:       &siteName,
		Tagline:        &tagline,
		WhatsAppNumber: &whatsApp,
		Email:          &email,
		Address:        &address,
		OpeningHours:   &hours,
	})
	fatalOn(ctx, logg, "failed to seed site settings", err)

	logg.Info(ctx, "site settings seeded")
}

func fatalOn(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
