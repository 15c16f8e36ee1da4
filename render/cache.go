package render

import (
	"github.com/gogpu/gputypes"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/go-theft-auto/guibridge"
)

// pipelineCache keeps one pipeline per color format. Evicted pipelines
// are released.
type pipelineCache struct {
	dev   Device
	cache *lru.Cache[gputypes.TextureFormat, Pipeline]
}

func newPipelineCache(dev Device, size int) *pipelineCache {
	cache, _ := lru.NewWithEvict[gputypes.TextureFormat, Pipeline](max(size, 1), releasePipelineOnEviction)
	return &pipelineCache{dev: dev, cache: cache}
}

func (c *pipelineCache) get(format gputypes.TextureFormat) (Pipeline, error) {
	if p, ok := c.cache.Get(format); ok {
		return p, nil
	}
	p, err := c.dev.CreatePipeline(format)
	if err != nil {
		return nil, errors.Wrapf(err, "create pipeline for %s", guibridge.FormatName(format))
	}
	c.cache.Add(format, p)
	logger().Debug("pipeline created", "format", guibridge.FormatName(format))
	return p, nil
}

func (c *pipelineCache) purge() {
	c.cache.Purge()
}

func releasePipelineOnEviction(_ gputypes.TextureFormat, p Pipeline) {
	p.Release()
}

// samplerCache shares samplers between renderers with equal descriptors.
type samplerCache struct {
	dev   Device
	cache *lru.Cache[SamplerDescriptor, Sampler]
}

func newSamplerCache(dev Device) *samplerCache {
	cache, _ := lru.NewWithEvict[SamplerDescriptor, Sampler](4, releaseSamplerOnEviction)
	return &samplerCache{dev: dev, cache: cache}
}

func (c *samplerCache) get(desc SamplerDescriptor) (Sampler, error) {
	if s, ok := c.cache.Get(desc); ok {
		return s, nil
	}
	s, err := c.dev.CreateSampler(desc)
	if err != nil {
		return nil, errors.Wrap(err, "create sampler")
	}
	c.cache.Add(desc, s)
	return s, nil
}

func (c *samplerCache) purge() {
	c.cache.Purge()
}

func releaseSamplerOnEviction(_ SamplerDescriptor, s Sampler) {
	s.Release()
}
