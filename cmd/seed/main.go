package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

// Imports cottages from a spreadsheet so the group does not have to
// re-type a shortlist that already lives in Excel.
//
// Expected columns, first row is the header:
//   Name | Location | Price | Beds | Dogs | Image | URL | Description |
//   SubmittedBy | HotTub | SecureGarden | EVCharging | Parking |
//   LogBurner | HighChair | Cot

const columnCount = 16

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	cottageRepo := repository.NewCottageRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	cottages, err := readCottagesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total cottages to import: %d\n", len(cottages))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := cottageRepo.BulkCreate(cottages, 100); err != nil {
		log.Fatal("Failed to bulk create cottages:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total cottages imported: %d\n", len(cottages))
}

func readCottagesFromXLSX(filePath string) ([]model.Cottage, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var cottages []model.Cottage
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		// pad short rows so the amenity columns are safe to index
		for len(row) < columnCount {
			row = append(row, "")
		}

		name := strings.TrimSpace(row[0])
		location := strings.TrimSpace(row[1])
		price := strings.TrimSpace(row[2])
		submittedBy := strings.TrimSpace(row[8])

		if name == "" || submittedBy == "" {
			skippedCount++
			continue
		}

		key := fmt.Sprintf("%s|%s", strings.ToLower(name), strings.ToLower(location))
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		beds, _ := strconv.Atoi(strings.TrimSpace(row[3]))

		cottages = append(cottages, model.Cottage{
			Name:         name,
			Location:     location,
			Price:        price,
			Beds:         beds,
			DogsAllowed:  parseBool(row[4]),
			Image:        strings.TrimSpace(row[5]),
			URL:          strings.TrimSpace(row[6]),
			Description:  strings.TrimSpace(row[7]),
			SubmittedBy:  submittedBy,
			HotTub:       parseBool(row[9]),
			SecureGarden: parseBool(row[10]),
			EVCharging:   parseBool(row[11]),
			Parking:      parseBool(row[12]),
			LogBurner:    parseBool(row[13]),
			HighChair:    parseBool(row[14]),
			Cot:          parseBool(row[15]),
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid cottages: %d\n", len(cottages))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return cottages, nil
}

func parseBool(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "y", "yes", "true", "x":
		return true
	}
	return false
}
