package downloader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func f64(v float64) *float64 {
	return &v
}

func TestBuildTasksValidation(t *testing.T) {
	urls := []string{"https://youtu.be/a", "https://youtu.be/b"}

	tests := []struct {
		name    string
		urls    []string
		opts    Options
		wantErr bool
	}{
		{
			name:    "no destination at all",
			urls:    urls,
			opts:    Options{},
			wantErr: true,
		},
		{
			name: "output dir only",
			urls: urls,
			opts: Options{OutputDir: "out"},
		},
		{
			name: "explicit paths only",
			urls: urls,
			opts: Options{Paths: []string{"a.mp4", "b.mp4"}},
		},
		{
			name:    "paths count mismatch",
			urls:    urls,
			opts:    Options{Paths: []string{"a.mp4"}},
			wantErr: true,
		},
		{
			name:    "clips count mismatch",
			urls:    urls,
			opts:    Options{OutputDir: "out", Clips: []*ClipSegment{nil}},
			wantErr: true,
		},
		{
			name:    "resolutions count mismatch",
			urls:    urls,
			opts:    Options{OutputDir: "out", Resolutions: []string{"720p", "480p", "360p"}},
			wantErr: true,
		},
		{
			name:    "bad resolution",
			urls:    urls,
			opts:    Options{OutputDir: "out", Resolution: "very high"},
			wantErr: true,
		},
		{
			name:    "resolution suffix without number",
			urls:    urls,
			opts:    Options{OutputDir: "out", Resolution: "p"},
			wantErr: true,
		},
		{
			name: "target resolution",
			urls: urls,
			opts: Options{OutputDir: "out", Resolution: "1080p"},
		},
		{
			name: "per video hole without fallback dir",
			urls: urls,
			opts: Options{Paths: []string{"a.mp4", ""}},
			// The second video ends up with neither strategy.
			wantErr: true,
		},
		{
			name: "per video hole with fallback dir",
			urls: urls,
			opts: Options{OutputDir: "out", Paths: []string{"a.mp4", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := buildTasks(tt.urls, tt.opts, t.TempDir(), zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if got := CategoryOf(err); got != CategoryConfig {
					t.Fatalf("category = %q, want %q", got, CategoryConfig)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildTasks: %v", err)
			}
			if len(tasks) != len(tt.urls) {
				t.Fatalf("got %d tasks for %d urls", len(tasks), len(tt.urls))
			}
		})
	}
}

func TestBuildTasksOrderAndScratch(t *testing.T) {
	urls := []string{"https://youtu.be/a", "https://youtu.be/b", "https://youtu.be/c"}
	tasks, err := buildTasks(urls, Options{OutputDir: "out"}, t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTasks: %v", err)
	}

	seen := make(map[string]bool)
	for i, task := range tasks {
		if task.index != i {
			t.Errorf("tasks[%d].index = %d", i, task.index)
		}
		if task.url != urls[i] {
			t.Errorf("tasks[%d].url = %q, want %q", i, task.url, urls[i])
		}
		if task.scratchDir == "" || seen[task.scratchDir] {
			t.Errorf("tasks[%d] scratch dir %q not unique", i, task.scratchDir)
		}
		seen[task.scratchDir] = true
	}
}

func TestBuildTasksClipNormalization(t *testing.T) {
	tests := []struct {
		name     string
		clip     *ClipSegment
		wantNil  bool
		wantFrom float64
		wantDur  float64
	}{
		{name: "absent", clip: nil, wantNil: true},
		{name: "both bounds absent", clip: &ClipSegment{}, wantNil: true},
		{name: "zero start open end", clip: &ClipSegment{Start: f64(0)}, wantNil: true},
		{name: "negative start open end", clip: &ClipSegment{Start: f64(-2)}, wantNil: true},
		{name: "open ended from five", clip: &ClipSegment{Start: f64(5)}, wantFrom: 5, wantDur: -1},
		{name: "end only", clip: &ClipSegment{End: f64(20)}, wantFrom: 0, wantDur: 20},
		{name: "both bounds", clip: &ClipSegment{Start: f64(5), End: f64(20)}, wantFrom: 5, wantDur: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := buildTasks([]string{"https://youtu.be/a"}, Options{OutputDir: "out", Clip: tt.clip}, t.TempDir(), zerolog.Nop())
			if err != nil {
				t.Fatalf("buildTasks: %v", err)
			}
			clip := tasks[0].clip
			if tt.wantNil {
				if clip != nil {
					t.Fatalf("clip = %+v, want nil", clip)
				}
				return
			}
			if clip == nil {
				t.Fatal("clip normalized away")
			}
			start, duration := clip.bounds()
			if start != tt.wantFrom || duration != tt.wantDur {
				t.Fatalf("bounds() = (%v, %v), want (%v, %v)", start, duration, tt.wantFrom, tt.wantDur)
			}
		})
	}
}

func TestBuildTasksDropsExtForExplicitPaths(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	tasks, err := buildTasks(
		[]string{"https://youtu.be/a"},
		Options{Paths: []string{"clip.mp4"}, Ext: ".webm"},
		t.TempDir(),
		log,
	)
	if err != nil {
		t.Fatalf("buildTasks: %v", err)
	}
	if tasks[0].ext != "" {
		t.Errorf("ext = %q, want dropped", tasks[0].ext)
	}
	if !strings.Contains(buf.String(), "ignoring extension") {
		t.Errorf("expected a warning, log output: %s", buf.String())
	}
}

func TestBuildTasksBroadcast(t *testing.T) {
	urls := []string{"https://youtu.be/a", "https://youtu.be/b"}
	opts := Options{
		OutputDir:   "out",
		Ext:         ".mp4",
		Resolutions: []string{"highest", "480p"},
		Clips:       []*ClipSegment{nil, {Start: f64(3), End: f64(9)}},
	}

	tasks, err := buildTasks(urls, opts, t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTasks: %v", err)
	}
	for i, task := range tasks {
		if task.outputDir != "out" {
			t.Errorf("tasks[%d].outputDir = %q", i, task.outputDir)
		}
		if task.ext != "mp4" {
			t.Errorf("tasks[%d].ext = %q, want mp4", i, task.ext)
		}
	}
	if tasks[0].resolution.kind != policyHighest {
		t.Errorf("tasks[0] policy = %v, want highest", tasks[0].resolution.kind)
	}
	if tasks[1].resolution.kind != policyNearest || tasks[1].resolution.target != 480 {
		t.Errorf("tasks[1] policy = %+v, want nearest 480", tasks[1].resolution)
	}
	if tasks[0].clip != nil {
		t.Errorf("tasks[0].clip = %+v, want nil", tasks[0].clip)
	}
	if tasks[1].clip == nil {
		t.Error("tasks[1].clip missing")
	}
}

func TestParseResolutionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    resolutionPolicy
		wantErr bool
	}{
		{in: "", want: resolutionPolicy{kind: policyHighest}},
		{in: "highest", want: resolutionPolicy{kind: policyHighest}},
		{in: "lowest", want: resolutionPolicy{kind: policyLowest}},
		{in: "720p", want: resolutionPolicy{kind: policyNearest, target: 720}},
		{in: "2160p", want: resolutionPolicy{kind: policyNearest, target: 2160}},
		{in: "720", wantErr: true},
		{in: "max", wantErr: true},
		{in: "p", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseResolutionPolicy(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResolutionPolicy(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseResolutionPolicy(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
