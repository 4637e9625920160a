package downloader

import "testing"

func TestSelectStreamDegradingSearch(t *testing.T) {
	tests := []struct {
		name    string
		streams []Stream
		ext     string
		policy  resolutionPolicy
		want    int // itag of the expected pick, -1 for none
	}{
		{
			name: "progressive with matching ext wins",
			streams: []Stream{
				{Itag: 1, Ext: "mp4", Progressive: false, Resolution: 1080},
				{Itag: 2, Ext: "mp4", Progressive: true, Resolution: 720},
				{Itag: 3, Ext: "webm", Progressive: true, Resolution: 1080},
			},
			ext:  "mp4",
			want: 2,
		},
		{
			name: "ext match beats progressive once muxed ext is gone",
			streams: []Stream{
				{Itag: 1, Ext: "mp4", Progressive: false, Resolution: 1080},
				{Itag: 2, Ext: "webm", Progressive: true, Resolution: 1080},
			},
			ext:  "mp4",
			want: 1,
		},
		{
			name: "progressive fallback when ext unavailable",
			streams: []Stream{
				{Itag: 1, Ext: "webm", Progressive: true, Resolution: 720},
				{Itag: 2, Ext: "3gp", Progressive: false, Resolution: 240},
			},
			ext:  "mp4",
			want: 1,
		},
		{
			name: "anything as the last resort",
			streams: []Stream{
				{Itag: 1, Ext: "webm", Progressive: false, Resolution: 1080},
			},
			ext:  "mp4",
			want: 1,
		},
		{
			name:    "no streams at all",
			streams: nil,
			ext:     "mp4",
			want:    -1,
		},
		{
			name: "empty ext defaults to mp4",
			streams: []Stream{
				{Itag: 1, Ext: "webm", Progressive: true, Resolution: 1080},
				{Itag: 2, Ext: "mp4", Progressive: true, Resolution: 360},
			},
			ext:  "",
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectStream(tt.streams, tt.ext, tt.policy)
			if tt.want == -1 {
				if got != nil {
					t.Fatalf("selectStream = itag %d, want none", got.Itag)
				}
				return
			}
			if got == nil {
				t.Fatal("selectStream = none")
			}
			if got.Itag != tt.want {
				t.Fatalf("selectStream = itag %d, want %d", got.Itag, tt.want)
			}
		})
	}
}

func TestSelectStreamResolutionPolicy(t *testing.T) {
	streams := []Stream{
		{Itag: 1, Ext: "mp4", Progressive: true, Resolution: 480},
		{Itag: 2, Ext: "mp4", Progressive: true, Resolution: 720},
		{Itag: 3, Ext: "mp4", Progressive: true, Resolution: 1080},
	}

	tests := []struct {
		name   string
		policy resolutionPolicy
		want   int
	}{
		{name: "highest by default", policy: resolutionPolicy{kind: policyHighest}, want: 3},
		{name: "lowest", policy: resolutionPolicy{kind: policyLowest}, want: 1},
		{name: "nearest exact", policy: resolutionPolicy{kind: policyNearest, target: 480}, want: 1},
		{name: "nearest above", policy: resolutionPolicy{kind: policyNearest, target: 1000}, want: 3},
		// 900 is 180 away from both 720 and 1080: the earlier listing wins.
		{name: "nearest tie keeps first", policy: resolutionPolicy{kind: policyNearest, target: 900}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectStream(streams, "mp4", tt.policy)
			if got == nil {
				t.Fatal("selectStream = none")
			}
			if got.Itag != tt.want {
				t.Fatalf("selectStream = itag %d, want %d", got.Itag, tt.want)
			}
		})
	}
}

func TestSelectStreamExtremalTieKeepsFirst(t *testing.T) {
	streams := []Stream{
		{Itag: 1, Ext: "mp4", Progressive: true, Resolution: 1080},
		{Itag: 2, Ext: "mp4", Progressive: true, Resolution: 1080},
	}
	got := selectStream(streams, "mp4", resolutionPolicy{kind: policyHighest})
	if got == nil || got.Itag != 1 {
		t.Fatalf("selectStream = %+v, want itag 1", got)
	}
}
