package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math/cmplx"
	"os"
	"time"

	"hpmri/pkg/api"
	"hpmri/pkg/catalog"
	"hpmri/pkg/config"
	"hpmri/pkg/dicomio"
	"hpmri/pkg/hpmri"
	"hpmri/pkg/logger"
	"hpmri/pkg/volume"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "hpmri.yaml", "Path to the YAML configuration file")
	mode := flag.String("mode", "serve", "One of: inspect, extract, spectrum, enhance, serve, init-config")
	dataset := flag.Int("dataset", 0, "Dataset index for inspect, extract and spectrum")
	slice := flag.Int("slice", 0, "Proton slice index for enhance, or acquisition slice for extract and spectrum")
	view := flag.Int("view", 0, "View index for spectrum")
	echo := flag.Int("echo", 0, "Echo index for extract and spectrum")
	contrast := flag.Float64("contrast", 0, "CLAHE clip limit for enhance (default: from config)")
	threshold := flag.Float64("threshold", 0, "Magnitude threshold for extract (default: from config)")
	outPath := flag.String("out", "", "Output PNG file for extract and enhance")
	flag.Parse()
	given := setFlags(flag.CommandLine)

	if *mode == "init-config" {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.NewStdOutLogger(cfg.LogLevel())

	cat, err := catalog.Scan(cfg.Data.EpsiDir, cfg.Data.MRDExtension)
	if err != nil {
		log.Fatalf("Failed to scan datasets: %v", err)
	}

	// A missing proton folder only disables the proton route
	protons, err := catalog.ScanProtonSeries(cfg.Data.ProtonDir, cfg.Data.ProtonFilePrefix)
	if err != nil {
		lg.Errorf("Proton series unavailable: %v", err)
		protons = nil
	}

	svc := hpmri.NewService(&hpmri.Params{
		Catalog:   cat,
		Protons:   protons,
		ReadSlice: dicomio.ReadSlice,
		NumCores:  cfg.Processing.NumCores,
		Log:       lg,
	})
	lg.Infof("Found %d datasets and %d proton slices", svc.DatasetCount(), svc.SliceCount())

	startTime := time.Now()
	switch *mode {
	case "inspect":
		summary, err := svc.DecodeAcquisition(*dataset)
		if err != nil {
			log.Fatalf("Failed to decode dataset %d: %v", *dataset, err)
		}
		d := summary.Dimensions
		fmt.Printf("Dataset:       %s\n", summary.Dataset)
		fmt.Printf("Sample format: %s\n", summary.SampleFormat)
		fmt.Printf("Dimensions:    %d samples x %d views x %d slice views x %d slices x %d echoes x %d nex\n",
			d.Samples, d.Views, d.SliceViews, d.Slices, d.Echoes, d.NEX)
		fmt.Printf("Magnitude:     min %.3f, max %.3f, mean %.3f\n",
			summary.Magnitude.Min, summary.Magnitude.Max, summary.Magnitude.Mean)
		fmt.Printf("Parameters:\n%s\n", summary.ParameterText)

	case "extract":
		t := flagOrDefault(given, "threshold", *threshold, cfg.Extraction.DefaultThreshold)
		arr, _, err := svc.ExtractThresholded(*dataset, t)
		if err != nil {
			log.Fatalf("Extraction failed: %v", err)
		}

		masked := 0
		for _, v := range arr.Data {
			if v == 0 {
				masked++
			}
		}
		fmt.Printf("Masked %d of %d samples below %.3f\n", masked, arr.Len(), t)

		if *outPath != "" {
			plane, err := volume.Plane(arr, volume.Position{Slice: *slice, Echo: *echo})
			if err != nil {
				log.Fatalf("Failed to select plane: %v", err)
			}
			f, err := os.Create(*outPath)
			if err != nil {
				log.Fatalf("Failed to create %s: %v", *outPath, err)
			}
			if err := png.Encode(f, volume.PlaneImage(plane)); err != nil {
				f.Close()
				log.Fatalf("Failed to write %s: %v", *outPath, err)
			}
			f.Close()
			fmt.Printf("Plane image saved to: %s\n", *outPath)
		}

	case "spectrum":
		coeffs, err := svc.Spectrum(*dataset, *view, volume.Position{Slice: *slice, Echo: *echo})
		if err != nil {
			log.Fatalf("Spectrum failed: %v", err)
		}
		fmt.Printf("Spectrum of dataset %d, view %d, slice %d, echo %d:\n", *dataset, *view, *slice, *echo)
		for k, c := range coeffs {
			fmt.Printf("%4d  %12.4f  %8.4f\n", k, cmplx.Abs(c), cmplx.Phase(c))
		}

	case "enhance":
		c := flagOrDefault(given, "contrast", *contrast, cfg.Proton.DefaultContrast)
		data, err := svc.EnhanceProtonSlice(*slice, c)
		if err != nil {
			log.Fatalf("Enhancement failed: %v", err)
		}
		if *outPath == "" {
			*outPath = fmt.Sprintf("proton_%05d.png", *slice)
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", *outPath, err)
		}
		fmt.Printf("Enhanced slice saved to: %s\n", *outPath)

	case "serve":
		server := api.NewServer(svc, cfg, lg)
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}

	default:
		flag.Usage()
		os.Exit(1)
	}

	lg.Debugf("Completed %s in %.2f seconds", *mode, time.Since(startTime).Seconds())
}

// setFlags returns the names of the flags given on the command line
func setFlags(fs *flag.FlagSet) map[string]bool {
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})
	return given
}

// flagOrDefault returns value when the flag was given, even if it is out of
// range, so the service can reject it. Otherwise it returns def.
func flagOrDefault(given map[string]bool, name string, value, def float64) float64 {
	if given[name] {
		return value
	}
	return def
}
