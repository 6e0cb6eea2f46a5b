package catalog

import (
	"context"
	"sync"

	"hpmri/internal/models"
	"hpmri/pkg/logger"
	"hpmri/pkg/mrd"
)

// Inventory reads the header of every dataset in the catalog, using up to
// numCores goroutines. Only the first mrd.HeaderSize bytes of each file are
// read. A dataset whose header cannot be read gets its Err field set instead
// of failing the whole inventory. Results are in catalog order.
func Inventory(ctx context.Context, cat *Catalog, numCores int, log logger.ILogger) ([]models.DatasetInfo, error) {
	if numCores < 1 {
		numCores = 1
	}

	total := cat.Len()
	result := make([]models.DatasetInfo, total)

	type task struct {
		index int
	}
	tasks := make(chan task)

	var wg sync.WaitGroup
	for w := 0; w < numCores && w < total; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				result[t.index] = describe(cat, t.index)
				if result[t.index].Err != "" {
					log.Errorf("Dataset %d (%s): %s", t.index, result[t.index].Dataset, result[t.index].Err)
				}
			}
		}()
	}

	var err error
feed:
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case tasks <- task{index: i}:
		}
	}
	close(tasks)
	wg.Wait()

	if err != nil {
		return nil, err
	}

	log.Debugf("Read headers of %d datasets with %d workers", total, numCores)
	return result, nil
}

// describe reads one dataset header; each worker writes a distinct element
func describe(cat *Catalog, index int) models.DatasetInfo {
	info := models.DatasetInfo{Index: index}
	info.Dataset, _ = cat.Name(index)

	path, err := cat.Resolve(index)
	if err != nil {
		info.Err = err.Error()
		return info
	}
	info.Path = path

	hdr, err := mrd.ReadHeaderFile(path)
	if err != nil {
		info.Err = err.Error()
		return info
	}

	format, err := hdr.Format()
	if err != nil {
		info.Err = err.Error()
		return info
	}

	info.Dimensions = hdr.Dimensions()
	info.SampleFormat = format.String()
	return info
}
