package filewatch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aguxez/foodplates/models"
)

var seedHeader = []string{"Name", "Image", "Description", "Price", "Available"}

// ParseFoods reads seed plates from CSV. Available defaults to true when blank.
func ParseFoods(path string) ([]models.FoodPlate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	return ReadFoods(f)
}

// ReadFoods is ParseFoods over an open reader.
func ReadFoods(in io.Reader) ([]models.FoodPlate, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(seedHeader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != seedHeader[i] {
			return nil, fmt.Errorf("invalid header: expected %s at position %d, got %s", seedHeader[i], i, h)
		}
	}

	var foods []models.FoodPlate
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("line %d: name is required", line)
		}
		price, err := models.ParsePrice(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		available := true
		if raw := strings.TrimSpace(record[4]); raw != "" {
			available, err = strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing available %s: %w", line, raw, err)
			}
		}

		foods = append(foods, models.FoodPlate{
			Name:        name,
			Image:       strings.TrimSpace(record[1]),
			Description: strings.TrimSpace(record[2]),
			Price:       price.StringFixed(2),
			Available:   available,
		})
	}

	return foods, nil
}
