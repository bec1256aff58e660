package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcmtrack/dcmtrack/internal/model"
)

func TestRouteStatusTotality(t *testing.T) {
	// Every known status routes to exactly one bucket.
	for _, status := range KnownStatuses() {
		_, bucket, ok := RouteStatus(string(status))
		assert.True(t, ok, "status %q not routed", status)
		assert.Contains(t, []model.Bucket{
			model.BucketPipeline, model.BucketRegistered, model.BucketIgnored,
		}, bucket, "status %q", status)
	}
}

func TestRouteStatusBuckets(t *testing.T) {
	tests := []struct {
		status string
		want   model.Bucket
	}{
		{"Registro Concedido", model.BucketPipeline},
		{"Aguardando Bookbuilding", model.BucketPipeline},
		{"Aguardando Encerramento", model.BucketPipeline},
		{"Em Análise", model.BucketPipeline},
		{"Análise Pendente", model.BucketPipeline},
		{"Oferta Encerrada", model.BucketRegistered},
		{"Registro Caducado", model.BucketIgnored},
		{"Oferta Revogada", model.BucketIgnored},
		{"Requerimento Expirado", model.BucketIgnored},
	}
	for _, tt := range tests {
		_, bucket, ok := RouteStatus(tt.status)
		assert.True(t, ok, tt.status)
		assert.Equal(t, tt.want, bucket, tt.status)
	}
}

func TestRouteStatusUnknown(t *testing.T) {
	status, bucket, ok := RouteStatus("Status Inventado")
	assert.False(t, ok)
	assert.Equal(t, model.BucketIgnored, bucket)
	assert.Equal(t, model.Status("Status Inventado"), status)
}

func TestRouteStatusAliases(t *testing.T) {
	status, bucket, ok := RouteStatus("Encerrado")
	assert.True(t, ok)
	assert.Equal(t, model.StatusClosed, status)
	assert.Equal(t, model.BucketRegistered, bucket)

	status, bucket, ok = RouteStatus("Concedido")
	assert.True(t, ok)
	assert.Equal(t, model.StatusGranted, status)
	assert.Equal(t, model.BucketPipeline, bucket)
}

func TestProductKeysLongestFirst(t *testing.T) {
	keys := ProductKeys()
	for i := 1; i < len(keys); i++ {
		assert.GreaterOrEqual(t, len(keys[i-1]), len(keys[i]))
	}
}

func TestCoordinatorKeysLongestFirst(t *testing.T) {
	keys := CoordinatorKeys()
	for i := 1; i < len(keys); i++ {
		assert.GreaterOrEqual(t, len(keys[i-1]), len(keys[i]))
	}
}
