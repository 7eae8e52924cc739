package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// envPrefix namespaces every environment variable the raytracer reads
const envPrefix = "RAYTRACER_"

// defaultEnvFile is read when present; a missing default file is not an error
const defaultEnvFile = ".env"

// Config is the fully resolved command line configuration
type Config struct {
	Scene      string
	Sampling   renderer.SamplingConfig
	Camera     CameraOverrides
	OutputDir  string
	PNG        bool
	Thumbnail  uint // Max thumbnail edge in pixels (0 = no thumbnail)
	S3         output.S3Config
	Help       bool
	ListScenes bool
}

// CameraOverrides replace fields of the scene's recommended camera when set
type CameraOverrides struct {
	LookFrom      *core.Vec3
	LookAt        *core.Vec3
	VFov          *float64
	Aperture      *float64
	FocusDistance *float64
}

// Apply returns base with every set override replaced
func (o CameraOverrides) Apply(base renderer.CameraConfig) renderer.CameraConfig {
	if o.LookFrom != nil {
		base.LookFrom = *o.LookFrom
	}
	if o.LookAt != nil {
		base.LookAt = *o.LookAt
	}
	if o.VFov != nil {
		base.VFov = *o.VFov
	}
	if o.Aperture != nil {
		base.Aperture = *o.Aperture
	}
	if o.FocusDistance != nil {
		base.FocusDistance = *o.FocusDistance
	}
	return base
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Scene:     "random",
		Sampling:  renderer.DefaultSamplingConfig(),
		OutputDir: output.DefaultDir,
	}
}

// setting is one option settable by flag, environment or .env file
type setting struct {
	name     string
	usage    string
	isBool   bool
	flagOnly bool
	apply    func(cfg *Config, value string) error
}

// envKey maps a flag name to its environment variable, e.g. max-depth -> RAYTRACER_MAX_DEPTH
func envKey(name string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

var settings = []setting{
	{name: "scene", usage: "Scene to render (random, simple, single)", apply: stringSetting(func(c *Config, v string) { c.Scene = v })},
	{name: "width", usage: "Image width in pixels (default 400)", apply: intSetting(func(c *Config, n int) { c.Sampling.Width = n })},
	{name: "height", usage: "Image height in pixels (default 200)", apply: intSetting(func(c *Config, n int) { c.Sampling.Height = n })},
	{name: "samples", usage: "Samples per pixel (default 50)", apply: intSetting(func(c *Config, n int) { c.Sampling.SamplesPerPixel = n })},
	{name: "max-depth", usage: "Maximum bounces per camera ray (default 50)", apply: intSetting(func(c *Config, n int) { c.Sampling.MaxDepth = n })},
	{name: "workers", usage: "Number of render workers (default: CPU count)", apply: intSetting(func(c *Config, n int) { c.Sampling.NumWorkers = n })},
	{name: "tile-size", usage: "Tile edge in pixels (default 32)", apply: intSetting(func(c *Config, n int) { c.Sampling.TileSize = n })},
	{name: "sample-batches", usage: "Batches each tile's samples are split into (default 1)", apply: intSetting(func(c *Config, n int) { c.Sampling.SampleBatches = n })},
	{name: "seed", usage: "Random seed for a reproducible scene and image", apply: func(c *Config, v string) error {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return err
		}
		c.Sampling.Seed = seed
		c.Sampling.Seeded = true
		return nil
	}},
	{name: "lookfrom", usage: "Camera position as x,y,z", apply: vecSetting(func(c *Config, v core.Vec3) { c.Camera.LookFrom = &v })},
	{name: "lookat", usage: "Camera target as x,y,z", apply: vecSetting(func(c *Config, v core.Vec3) { c.Camera.LookAt = &v })},
	{name: "vfov", usage: "Vertical field of view in degrees", apply: floatSetting(func(c *Config, f float64) { c.Camera.VFov = &f })},
	{name: "aperture", usage: "Lens aperture (0 = pinhole)", apply: floatSetting(func(c *Config, f float64) { c.Camera.Aperture = &f })},
	{name: "focus-distance", usage: "Distance to the focal plane (0 = distance to lookat)", apply: floatSetting(func(c *Config, f float64) { c.Camera.FocusDistance = &f })},
	{name: "output-dir", usage: "Directory for rendered images (default images)", apply: stringSetting(func(c *Config, v string) { c.OutputDir = v })},
	{name: "png", usage: "Also write a PNG copy", isBool: true, apply: boolSetting(func(c *Config, b bool) { c.PNG = b })},
	{name: "thumbnail", usage: "Also write a PNG preview no larger than N x N", apply: func(c *Config, v string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return err
		}
		c.Thumbnail = uint(n)
		return nil
	}},
	{name: "s3-bucket", usage: "Upload outputs to this S3 bucket", apply: stringSetting(func(c *Config, v string) { c.S3.Bucket = v })},
	{name: "s3-prefix", usage: "Key prefix for uploads", apply: stringSetting(func(c *Config, v string) { c.S3.Prefix = v })},
	{name: "s3-endpoint", usage: "S3-compatible endpoint URL", apply: stringSetting(func(c *Config, v string) { c.S3.Endpoint = v })},
	{name: "s3-region", usage: "S3 region", apply: stringSetting(func(c *Config, v string) { c.S3.Region = v })},
	{name: "s3-access-key", usage: "S3 access key", apply: stringSetting(func(c *Config, v string) { c.S3.AccessKey = v })},
	{name: "s3-secret-key", usage: "S3 secret key", apply: stringSetting(func(c *Config, v string) { c.S3.SecretKey = v })},
	{name: "list-scenes", usage: "List available scenes and exit", isBool: true, flagOnly: true, apply: boolSetting(func(c *Config, b bool) { c.ListScenes = b })},
	{name: "help", usage: "Show help information", isBool: true, flagOnly: true, apply: boolSetting(func(c *Config, b bool) { c.Help = b })},
}

func stringSetting(set func(*Config, string)) func(*Config, string) error {
	return func(c *Config, v string) error {
		set(c, v)
		return nil
	}
}

func intSetting(set func(*Config, int)) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		set(c, n)
		return nil
	}
}

func floatSetting(set func(*Config, float64)) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		set(c, f)
		return nil
	}
}

func boolSetting(set func(*Config, bool)) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		set(c, b)
		return nil
	}
}

func vecSetting(set func(*Config, core.Vec3)) func(*Config, string) error {
	return func(c *Config, v string) error {
		vec, err := parseVec3(v)
		if err != nil {
			return err
		}
		set(c, vec)
		return nil
	}
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z")
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, err
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// rawValue records a flag's text and whether it was given on the command line
type rawValue struct {
	value  string
	set    bool
	isBool bool
}

func (r *rawValue) String() string   { return r.value }
func (r *rawValue) IsBoolFlag() bool { return r.isBool }
func (r *rawValue) Set(s string) error {
	r.value = s
	r.set = true
	return nil
}

// newFlagSet registers every setting on a fresh flag set
func newFlagSet(out io.Writer) (*flag.FlagSet, map[string]*rawValue, *rawValue) {
	fset := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fset.SetOutput(out)

	raws := make(map[string]*rawValue, len(settings))
	for _, s := range settings {
		raw := &rawValue{isBool: s.isBool}
		raws[s.name] = raw
		fset.Var(raw, s.name, s.usage)
	}

	envFile := &rawValue{}
	fset.Var(envFile, "env-file", "Read settings from this .env file (default .env when present)")
	return fset, raws, envFile
}

// LoadConfig resolves the configuration from command line arguments, the
// environment and an optional .env file. Precedence: flag > environment > .env > default.
func LoadConfig(args []string, lookupEnv func(string) (string, bool), out io.Writer) (Config, error) {
	cfg := DefaultConfig()

	fset, raws, envFileFlag := newFlagSet(out)
	fset.Usage = func() { printUsage(fset) }
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	dotenv, err := readEnvFile(envFileFlag, lookupEnv)
	if err != nil {
		return cfg, err
	}

	for _, s := range settings {
		value, ok := "", false
		switch raw := raws[s.name]; {
		case raw.set:
			value, ok = raw.value, true
		case s.flagOnly:
		default:
			if value, ok = lookupEnv(envKey(s.name)); !ok {
				value, ok = dotenv[envKey(s.name)]
			}
		}
		if !ok {
			continue
		}
		if err := s.apply(&cfg, value); err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", s.name, value, err)
		}
	}

	if cfg.Help || cfg.ListScenes {
		return cfg, nil
	}
	if err := cfg.Sampling.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readEnvFile loads the .env layer. An explicitly named file must exist.
func readEnvFile(flagValue *rawValue, lookupEnv func(string) (string, bool)) (map[string]string, error) {
	path, explicit := defaultEnvFile, false
	if flagValue.set {
		path, explicit = flagValue.value, true
	} else if v, ok := lookupEnv(envKey("env-file")); ok {
		path, explicit = v, true
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

func printUsage(fset *flag.FlagSet) {
	out := fset.Output()
	fmt.Fprintln(out, "Sphere Raytracer")
	fmt.Fprintln(out, "Usage: raytracer [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fset.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Every option except -help and -list-scenes can also be set with %s<NAME>,\n", envPrefix)
	fmt.Fprintln(out, "e.g. RAYTRACER_MAX_DEPTH=10, in the environment or in a .env file.")
	fmt.Fprintln(out, "Output is saved to <output-dir>/<width>x<height>x<samples>.ppm")
}

// usageText returns the help text, used by -help
func usageText() string {
	var b strings.Builder
	fset, _, _ := newFlagSet(&b)
	printUsage(fset)
	return b.String()
}
