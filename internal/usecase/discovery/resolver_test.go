package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		rawName       string
		labels        map[string]string
		opts          ResolveOptions
		wantShortName string
		wantHostname  string
	}{
		{
			name:          "derived from name prefix",
			rawName:       "api-worker-1",
			wantShortName: "api",
			wantHostname:  "api.localhost",
		},
		{
			name:          "leading slash stripped",
			rawName:       "/web-internal-proxy-1",
			wantShortName: "web",
			wantHostname:  "web.localhost",
		},
		{
			name:          "no separator keeps whole name",
			rawName:       "postgres",
			wantShortName: "postgres",
			wantHostname:  "postgres.localhost",
		},
		{
			name:          "label overrides hostname",
			rawName:       "api-worker-1",
			labels:        map[string]string{"hostname": "custom.test"},
			wantShortName: "api",
			wantHostname:  "custom.test",
		},
		{
			name:          "empty label ignored",
			rawName:       "api-worker-1",
			labels:        map[string]string{"hostname": ""},
			wantShortName: "api",
			wantHostname:  "api.localhost",
		},
		{
			name:          "unrelated labels ignored",
			rawName:       "api-worker-1",
			labels:        map[string]string{"com.docker.compose.service": "worker"},
			wantShortName: "api",
			wantHostname:  "api.localhost",
		},
		{
			name:          "custom separator and suffix",
			rawName:       "shop_frontend_1",
			opts:          ResolveOptions{Separator: "_", HostnameSuffix: ".test"},
			wantShortName: "shop",
			wantHostname:  "shop.test",
		},
		{
			name:          "custom label key",
			rawName:       "shop-frontend-1",
			labels:        map[string]string{"proxy.host": "shop.dev", "hostname": "ignored.dev"},
			opts:          ResolveOptions{HostnameLabel: "proxy.host"},
			wantShortName: "shop",
			wantHostname:  "shop.dev",
		},
		{
			name:          "leading separator yields empty short name",
			rawName:       "-odd",
			wantShortName: "",
			wantHostname:  ".localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortName, hostname := Resolve(tt.rawName, tt.labels, tt.opts)
			assert.Equal(t, tt.wantShortName, shortName)
			assert.Equal(t, tt.wantHostname, hostname)
		})
	}
}

func TestRecord(t *testing.T) {
	c := &domain.Container{
		ID:     "3f2a9c",
		Names:  []string{"/proj-web-1", "/alias"},
		Labels: map[string]string{"hostname": "shop.localhost"},
	}

	record := Record(c, DefaultResolveOptions())

	assert.Equal(t, domain.ContainerRecord{
		ID:        "3f2a9c",
		ShortName: "proj",
		FullName:  "proj-web-1",
		Hostname:  "shop.localhost",
	}, record)
}
