package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"size-fit/internal/config"
	"size-fit/internal/domain"
	"size-fit/internal/service"
)

// fitRequest es el archivo de entrada: perfil o medidas, mas la tabla de tallas.
type fitRequest struct {
	Profile             *domain.UserBodyProfile       `json:"profile"`
	Measurements        *domain.EstimatedMeasurements `json:"measurements"`
	SizeVariants        []domain.SizeVariant          `json:"size_variants"`
	StandardMeasurement *domain.StandardMeasurement   `json:"standard_measurement"`
}

func main() {
	file := flag.String("file", "", "archivo JSON con profile|measurements y size_variants")
	mintFor := flag.String("mint-token", "", "emite un JWT de comerciante para el ID indicado y termina")
	flag.Parse()

	_ = godotenv.Load()

	if *mintFor != "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
		token, err := jwtSvc.GenerateAccessToken(domain.Merchant{ID: *mintFor})
		if err != nil {
			log.Fatalf("mint token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var req fitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	fitting := service.NewFittingService(zap.NewNop(), nil, nil)

	var measurements domain.EstimatedMeasurements
	switch {
	case req.Measurements != nil:
		measurements = *req.Measurements
	case req.Profile != nil:
		measurements, err = fitting.Estimate(*req.Profile)
		if err != nil {
			log.Fatalf("estimate: %v", err)
		}
	default:
		log.Fatalf("request needs profile or measurements")
	}

	rec, err := fitting.Recommend(measurements, req.SizeVariants, req.StandardMeasurement)
	if err != nil {
		log.Fatalf("recommend: %v", err)
	}

	fmt.Printf("Medidas: busto=%.0f cintura=%.0f cadera=%.0f\n", measurements.BustCM, measurements.WaistCM, measurements.HipCM)
	fmt.Printf("Talla sugerida: %s [%s] %s\n", rec.SuggestedSize, rec.Confidence, rec.Message)
	for i, alt := range rec.AlternativeSizes {
		fmt.Printf("  alternativa %d: %s [%s] %s\n", i+1, alt.Size, alt.Confidence, alt.Message)
	}
}
