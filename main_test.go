package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	envFile := writeEnvFile(t, "")
	cfg, err := LoadConfig([]string{"-env-file", envFile}, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	expected := DefaultConfig()
	if cfg.Scene != expected.Scene || cfg.Sampling != expected.Sampling || cfg.OutputDir != expected.OutputDir {
		t.Errorf("Expected defaults %+v, got %+v", expected, cfg)
	}
	if cfg.Sampling.Width != 400 || cfg.Sampling.Height != 200 || cfg.Sampling.SamplesPerPixel != 50 {
		t.Errorf("Unexpected default size %dx%d@%d", cfg.Sampling.Width, cfg.Sampling.Height, cfg.Sampling.SamplesPerPixel)
	}
	if cfg.Camera.LookFrom != nil || cfg.Camera.Aperture != nil {
		t.Error("No camera overrides should be set by default")
	}
	if cfg.S3.Enabled() {
		t.Error("S3 should be disabled by default")
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	envFile := writeEnvFile(t, `RAYTRACER_WIDTH=111
RAYTRACER_HEIGHT=222
RAYTRACER_SAMPLES=3
RAYTRACER_S3_BUCKET=from-dotenv
`)
	env := envMap(map[string]string{
		"RAYTRACER_HEIGHT":  "333",
		"RAYTRACER_SAMPLES": "4",
	})

	cfg, err := LoadConfig([]string{"-env-file", envFile, "-samples", "5"}, env, io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Sampling.Width != 111 {
		t.Errorf(".env should supply width, got %d", cfg.Sampling.Width)
	}
	if cfg.Sampling.Height != 333 {
		t.Errorf("Environment should beat .env for height, got %d", cfg.Sampling.Height)
	}
	if cfg.Sampling.SamplesPerPixel != 5 {
		t.Errorf("Flag should beat environment for samples, got %d", cfg.Sampling.SamplesPerPixel)
	}
	if cfg.S3.Bucket != "from-dotenv" {
		t.Errorf("Expected bucket from .env, got %q", cfg.S3.Bucket)
	}
}

func TestLoadConfig_EnvFileFromEnvironment(t *testing.T) {
	envFile := writeEnvFile(t, "RAYTRACER_MAX_DEPTH=7\n")
	cfg, err := LoadConfig(nil, envMap(map[string]string{"RAYTRACER_ENV_FILE": envFile}), io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Sampling.MaxDepth != 7 {
		t.Errorf("Expected max depth 7, got %d", cfg.Sampling.MaxDepth)
	}
}

func TestLoadConfig_AllOptions(t *testing.T) {
	envFile := writeEnvFile(t, "")
	args := []string{
		"-env-file", envFile,
		"-scene", "simple",
		"-width", "64", "-height", "32", "-samples", "8", "-max-depth", "12",
		"-workers", "3", "-tile-size", "16", "-sample-batches", "2", "-seed", "-42",
		"-lookfrom", "1, 2,3", "-lookat", "0,0,-1",
		"-vfov", "35", "-aperture", "0", "-focus-distance", "2.5",
		"-output-dir", "renders", "-png", "-thumbnail", "48",
		"-s3-bucket", "bucket", "-s3-prefix", "p", "-s3-endpoint", "http://localhost:9000",
		"-s3-region", "us-east-1", "-s3-access-key", "ak", "-s3-secret-key", "sk",
	}

	cfg, err := LoadConfig(args, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	expectedSampling := renderer.SamplingConfig{
		Width: 64, Height: 32, SamplesPerPixel: 8, MaxDepth: 12,
		NumWorkers: 3, TileSize: 16, SampleBatches: 2, Seed: -42, Seeded: true,
	}
	if cfg.Sampling != expectedSampling {
		t.Errorf("Expected sampling %+v, got %+v", expectedSampling, cfg.Sampling)
	}
	if cfg.Scene != "simple" || cfg.OutputDir != "renders" || !cfg.PNG || cfg.Thumbnail != 48 {
		t.Errorf("Unexpected output settings %+v", cfg)
	}

	expectedS3 := output.S3Config{Bucket: "bucket", Prefix: "p", Endpoint: "http://localhost:9000", Region: "us-east-1", AccessKey: "ak", SecretKey: "sk"}
	if cfg.S3 != expectedS3 {
		t.Errorf("Expected S3 %+v, got %+v", expectedS3, cfg.S3)
	}

	camera := cfg.Camera.Apply(renderer.DefaultCameraConfig())
	if camera.LookFrom != core.NewVec3(1, 2, 3) || camera.LookAt != core.NewVec3(0, 0, -1) {
		t.Errorf("Camera position overrides not applied: %+v", camera)
	}
	if camera.VFov != 35 || camera.Aperture != 0 || camera.FocusDistance != 2.5 {
		t.Errorf("Camera lens overrides not applied: %+v", camera)
	}
	if camera.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Up should keep the scene value, got %v", camera.Up)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	envFile := writeEnvFile(t, "")
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad int flag", []string{"-width", "wide"}, nil},
		{"bad int env", nil, map[string]string{"RAYTRACER_SAMPLES": "many"}},
		{"bad vector", []string{"-lookfrom", "1,2"}, nil},
		{"bad float", []string{"-vfov", "x"}, nil},
		{"bad bool env", nil, map[string]string{"RAYTRACER_PNG": "maybe"}},
		{"negative thumbnail", []string{"-thumbnail", "-5"}, nil},
		{"unknown flag", []string{"-bogus"}, nil},
		{"zero width", []string{"-width", "0"}, nil},
		{"zero samples env", nil, map[string]string{"RAYTRACER_SAMPLES": "0"}},
		{"missing explicit env file", []string{"-env-file", filepath.Join(t.TempDir(), "nope.env")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if len(args) < 2 || args[0] != "-env-file" {
				args = append([]string{"-env-file", envFile}, args...)
			}
			if _, err := LoadConfig(args, envMap(tt.env), io.Discard); err == nil {
				t.Errorf("Expected an error for args %v env %v", tt.args, tt.env)
			}
		})
	}

	_, err := LoadConfig([]string{"-env-file", envFile, "-height", "-1"}, envMap(nil), io.Discard)
	if !errors.Is(err, renderer.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_FlagOnlySettings(t *testing.T) {
	envFile := writeEnvFile(t, "RAYTRACER_LIST_SCENES=true\n")
	cfg, err := LoadConfig([]string{"-env-file", envFile}, envMap(map[string]string{"RAYTRACER_HELP": "true"}), io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Help || cfg.ListScenes {
		t.Error("help and list-scenes should only come from flags")
	}

	cfg, err = LoadConfig([]string{"-env-file", envFile, "-help", "-width", "0"}, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("-help should skip validation, got %v", err)
	}
	if !cfg.Help {
		t.Error("Expected Help to be set")
	}
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		input    string
		expected core.Vec3
		wantErr  bool
	}{
		{"14,1.5,4", core.NewVec3(14, 1.5, 4), false},
		{" 0 , -1.5 , 4 ", core.NewVec3(0, -1.5, 4), false},
		{"1e2,0,0", core.NewVec3(100, 0, 0), false},
		{"1,2", core.Vec3{}, true},
		{"1,2,3,4", core.Vec3{}, true},
		{"a,b,c", core.Vec3{}, true},
		{"", core.Vec3{}, true},
	}

	for _, tt := range tests {
		got, err := parseVec3(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVec3(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseVec3(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("max-depth"); got != "RAYTRACER_MAX_DEPTH" {
		t.Errorf("Unexpected env key %q", got)
	}
	if got := envKey("s3-secret-key"); got != "RAYTRACER_S3_SECRET_KEY" {
		t.Errorf("Unexpected env key %q", got)
	}
}

// fakePublisher records published paths
type fakePublisher struct {
	paths []string
}

func (f *fakePublisher) Publish(ctx context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	return filepath.Base(path), nil
}

func testRunConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Scene = "single"
	cfg.OutputDir = filepath.Join(t.TempDir(), "images")
	cfg.Sampling.Width = 16
	cfg.Sampling.Height = 8
	cfg.Sampling.SamplesPerPixel = 2
	cfg.Sampling.MaxDepth = 5
	cfg.Sampling.NumWorkers = 2
	cfg.Sampling.Seeded = true
	cfg.Sampling.Seed = 3
	return cfg
}

func TestRun_WritesArtifacts(t *testing.T) {
	fake := &fakePublisher{}
	original := newPublisher
	newPublisher = func(cfg output.S3Config, logger core.Logger) (publisher, error) { return fake, nil }
	defer func() { newPublisher = original }()

	cfg := testRunConfig(t)
	cfg.PNG = true
	cfg.Thumbnail = 4
	cfg.S3.Bucket = "renders"

	artifacts, err := run(context.Background(), cfg, core.NopLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	expected := []string{
		output.PPMPath(cfg.OutputDir, 16, 8, 2),
		output.PNGPath(cfg.OutputDir, 16, 8, 2),
		output.ThumbnailPath(cfg.OutputDir, 16, 8, 2),
	}
	if len(artifacts) != len(expected) {
		t.Fatalf("Expected artifacts %v, got %v", expected, artifacts)
	}
	for i := range expected {
		if artifacts[i] != expected[i] {
			t.Errorf("Artifact %d: expected %q, got %q", i, expected[i], artifacts[i])
		}
		if _, err := os.Stat(artifacts[i]); err != nil {
			t.Errorf("Artifact %q was not written: %v", artifacts[i], err)
		}
	}

	grid, err := loaders.LoadPPM(artifacts[0])
	if err != nil {
		t.Fatalf("Failed to load rendered PPM: %v", err)
	}
	if grid.Width != 16 || grid.Height != 8 {
		t.Errorf("Expected 16x8 image, got %dx%d", grid.Width, grid.Height)
	}

	thumb, err := loaders.LoadImage(artifacts[2])
	if err != nil {
		t.Fatalf("Failed to load thumbnail: %v", err)
	}
	if thumb.Width != 4 || thumb.Height != 2 {
		t.Errorf("Expected 4x2 thumbnail, got %dx%d", thumb.Width, thumb.Height)
	}

	if len(fake.paths) != 3 {
		t.Errorf("Expected 3 uploads, got %v", fake.paths)
	}
}

func TestRun_Reproducible(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Scene = "random"
	cfg.Sampling.Width = 12
	cfg.Sampling.Height = 6

	first, err := run(context.Background(), cfg, core.NopLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	a, err := os.ReadFile(first[0])
	if err != nil {
		t.Fatal(err)
	}

	cfg.Sampling.NumWorkers = 5
	second, err := run(context.Background(), cfg, core.NopLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := os.ReadFile(second[0])
	if err != nil {
		t.Fatal(err)
	}

	if string(a) != string(b) {
		t.Error("Seeded renders should be byte-identical regardless of worker count")
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Scene = "teapot"
	if _, err := run(context.Background(), cfg, core.NopLogger{}); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}

	cfg = testRunConfig(t)
	lookAt := core.NewVec3(0, 0, 0)
	cfg.Camera.LookAt = &lookAt
	if _, err := run(context.Background(), cfg, core.NopLogger{}); !errors.Is(err, scene.ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for a camera looking at itself, got %v", err)
	}

	cfg = testRunConfig(t)
	cfg.S3.Bucket = "renders"
	original := newPublisher
	newPublisher = func(cfg output.S3Config, logger core.Logger) (publisher, error) {
		return nil, errors.New("no credentials")
	}
	defer func() { newPublisher = original }()
	if _, err := run(context.Background(), cfg, core.NopLogger{}); err == nil {
		t.Error("Expected the publisher error to be returned")
	}
}
