package utils

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// InventoryAdder is the slice of the inventory service the importer needs
type InventoryAdder interface {
	Add(ctx context.Context, refs []string, collection, addedBy string) (int, error)
}

// InventoryCSVImporter loads collectible voucher references from a CSV
// export into the platform inventory. Rows are grouped by collection and
// registered through the inventory service, so the usual dedupe rules
// apply.
type InventoryCSVImporter struct {
	inventory InventoryAdder
}

// NewInventoryCSVImporter creates a new InventoryCSVImporter
func NewInventoryCSVImporter(inventory InventoryAdder) *InventoryCSVImporter {
	return &InventoryCSVImporter{
		inventory: inventory,
	}
}

// Import reads the CSV at filePath and registers its references. The
// header row names the columns; the reference column is required, the
// collection column optional.
func (i *InventoryCSVImporter) Import(ctx context.Context, filePath string) (map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	refIdx := findColumnIndex(header, []string{"Ref", "Reference", "Token", "Token ID"})
	collectionIdx := findColumnIndex(header, []string{"Collection", "Set", "Series"})
	if refIdx == -1 {
		return nil, fmt.Errorf("reference column not found in CSV")
	}

	results := map[string]interface{}{
		"totalRows": 0,
		"added":     0,
		"skipped":   0,
		"errors":    []string{},
	}

	// Group references by collection, preserving first-seen order
	byCollection := map[string][]string{}
	var order []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			results["errors"] = append(results["errors"].([]string), err.Error())
			continue
		}
		results["totalRows"] = results["totalRows"].(int) + 1

		ref := strings.TrimSpace(row[refIdx])
		if ref == "" {
			results["skipped"] = results["skipped"].(int) + 1
			continue
		}
		collection := ""
		if collectionIdx != -1 && collectionIdx < len(row) {
			collection = strings.TrimSpace(row[collectionIdx])
		}
		if _, seen := byCollection[collection]; !seen {
			order = append(order, collection)
		}
		byCollection[collection] = append(byCollection[collection], ref)
	}

	for _, collection := range order {
		refs := byCollection[collection]
		added, err := i.inventory.Add(ctx, refs, collection, "CSV_IMPORT")
		if err != nil {
			results["errors"] = append(results["errors"].([]string),
				fmt.Sprintf("collection %q: %v", collection, err))
			continue
		}
		results["added"] = results["added"].(int) + added
		results["skipped"] = results["skipped"].(int) + len(refs) - added
	}

	return results, nil
}

// findColumnIndex locates the first header matching any of the candidate
// names, case-insensitively.
func findColumnIndex(header []string, names []string) int {
	for i, column := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(column), name) {
				return i
			}
		}
	}
	return -1
}
