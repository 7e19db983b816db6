package gpu

import (
	_ "embed"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/oliverbestmann/webgpu/wgpu"

	"github.com/oliverbestmann/veil/glm"
)

//go:embed quad.wgsl
var quadShaderCode string

//go:embed quad_masked.wgsl
var quadMaskedShaderCode string

// maximum number of quad instances to render in one batch.
const maxQuadInstances = 16 * 1024

type quadBatchConfig struct {
	target     *RenderTarget
	texture    *wgpu.TextureView
	mask       *wgpu.TextureView
	mipmapped  bool
	blendState wgpu.BlendState
}

type quadInstance struct {
	Color  glm.Vec4f
	DstMin glm.Vec2f
	DstMax glm.Vec2f
	UVMin  glm.Vec2f
	UVMax  glm.Vec2f
}

// QuadCommand renders batches of axis aligned textured quads in target
// pixel coordinates, optionally modulated by a single channel coverage
// mask sharing the base texture's uv space. Consecutive draws against
// the same target, texture and mask collapse into one instanced draw
// call.
type QuadCommand struct {
	ctx *Context

	pipelineCache *PipelineCache[quadPipelineConfig]

	instances    []quadInstance
	bufInstances *wgpu.Buffer
	bufIndices   *wgpu.Buffer
	bufViewport  *wgpu.Buffer

	batchConfig quadBatchConfig
}

func NewQuadCommand(ctx *Context) (*QuadCommand, error) {
	bufInstances, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad.Instances",
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(quadInstance{})) * maxQuadInstances,
	})

	if err != nil {
		return nil, fmt.Errorf("create instance buffer: %w", err)
	}

	bufIndices, err := ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Quad.Indices",
		Contents: wgpu.ToBytes([]uint16{2, 0, 1, 1, 3, 2}),
		Usage:    wgpu.BufferUsageIndex,
	})

	if err != nil {
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	bufViewport, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad.ViewportUniform",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof([4]float32{})),
	})

	if err != nil {
		return nil, fmt.Errorf("create viewport uniform: %w", err)
	}

	q := &QuadCommand{
		ctx:          ctx,
		bufInstances: bufInstances,
		bufIndices:   bufIndices,
		bufViewport:  bufViewport,
	}

	q.pipelineCache = NewPipelineCache[quadPipelineConfig](ctx)

	return q, nil
}

type DrawQuadOptions struct {
	// Dst and UV corners of the quad, Dst in target pixels.
	DstMin, DstMax glm.Vec2f
	UVMin, UVMax   glm.Vec2f

	// Color multiplies the sampled texel. The zero value draws nothing
	// useful; use opaque white for plain texturing.
	Color glm.Vec4f

	// Mask is an optional single channel coverage texture.
	Mask *wgpu.TextureView

	// Mipmapped samples the base texture across its mip chain instead
	// of pinning level zero.
	Mipmapped bool

	BlendState wgpu.BlendState
}

func (q *QuadCommand) Draw(dest *RenderTarget, source *Texture, opts DrawQuadOptions) error {
	batchConfig := quadBatchConfig{
		target:     dest,
		texture:    source.View(),
		mask:       opts.Mask,
		mipmapped:  opts.Mipmapped,
		blendState: opts.BlendState,
	}

	requireFlush := q.batchConfig != batchConfig ||
		len(q.instances)+1 > maxQuadInstances

	if requireFlush {
		if err := q.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		q.batchConfig = batchConfig
	}

	q.instances = append(q.instances, quadInstance{
		Color:  opts.Color,
		DstMin: opts.DstMin,
		DstMax: opts.DstMax,
		UVMin:  opts.UVMin,
		UVMax:  opts.UVMax,
	})

	return nil
}

func (q *QuadCommand) Flush() error {
	if len(q.instances) == 0 {
		return nil
	}

	defer q.reset()

	slog.Debug("Rendering quads", slog.Int("instanceCount", len(q.instances)))

	batchConfig := q.batchConfig

	queue := q.ctx.GetQueue()
	defer queue.Release()

	err := queue.WriteBuffer(q.bufInstances, 0, wgpu.ToBytes(q.instances))
	if err != nil {
		return fmt.Errorf("update instance buffer: %w", err)
	}

	sampler, err := CachedSampler(q.ctx.Device, baseSamplerDesc(batchConfig.mipmapped))
	if err != nil {
		return err
	}

	pipelineConfig := quadPipelineConfig{
		TargetFormat: batchConfig.target.Format,
		BlendState:   batchConfig.blendState,
		Masked:       batchConfig.mask != nil,
	}

	pipeline, err := q.pipelineCache.Get(pipelineConfig)
	if err != nil {
		return fmt.Errorf("get pipeline: %w", err)
	}

	entries := []wgpu.BindGroupEntry{
		{
			Binding:     0,
			TextureView: batchConfig.texture,
		},
		{
			Binding: 1,
			Sampler: sampler,
		},
		{
			Binding: 2,
			Buffer:  q.bufViewport,
			Size:    wgpu.WholeSize,
		},
	}

	if batchConfig.mask != nil {
		maskSampler, err := CachedSampler(q.ctx.Device, baseSamplerDesc(false))
		if err != nil {
			return err
		}

		entries = append(entries,
			wgpu.BindGroupEntry{
				Binding:     3,
				TextureView: batchConfig.mask,
			},
			wgpu.BindGroupEntry{
				Binding: 4,
				Sampler: maskSampler,
			},
		)
	}

	// the layout is owned by the pipeline cache
	bindGroup, err := q.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})

	if err != nil {
		return err
	}

	defer bindGroup.Release()

	viewport := [4]float32{
		float32(batchConfig.target.Width),
		float32(batchConfig.target.Height),
	}

	err = queue.WriteBuffer(q.bufViewport, 0, AsByteSlice(&viewport))
	if err != nil {
		return fmt.Errorf("update viewport buffer: %w", err)
	}

	encoder, err := q.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "RenderPassQuad",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    batchConfig.target.View,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	pass.SetPipeline(pipeline.Pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, q.bufInstances, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(q.bufIndices, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(6, uint32(len(q.instances)), 0, 0, 0)
	if err := pass.End(); err != nil {
		return err
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}

	defer cmdBuffer.Release()

	queue.Submit(cmdBuffer)

	return nil
}

func (q *QuadCommand) Release() {
	q.bufInstances.Release()
	q.bufIndices.Release()
	q.bufViewport.Release()
}

func (q *QuadCommand) reset() {
	q.instances = q.instances[:0]
	q.batchConfig = quadBatchConfig{}
}

func baseSamplerDesc(mipmapped bool) wgpu.SamplerDescriptor {
	desc := wgpu.SamplerDescriptor{
		Label:         "Quad-Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeUndefined,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	}

	if mipmapped {
		desc.MipmapFilter = wgpu.MipmapFilterModeLinear
		desc.LodMaxClamp = 32
	}

	return desc
}

type quadPipelineConfig struct {
	TargetFormat wgpu.TextureFormat
	BlendState   wgpu.BlendState
	Masked       bool
}

func (conf quadPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for quads",
		slog.Any("format", conf.TargetFormat),
		slog.Bool("masked", conf.Masked),
	)

	code := quadShaderCode
	if conf.Masked {
		code = quadMaskedShaderCode
	}

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Quad.ShaderSource",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("compile quad shader: %w", err)
	}

	defer shader.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Quad.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(quadInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{
							// color
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         uint64(unsafe.Offsetof(quadInstance{}.Color)),
							ShaderLocation: 0,
						},
						{
							// dst min
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(quadInstance{}.DstMin)),
							ShaderLocation: 1,
						},
						{
							// dst max
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(quadInstance{}.DstMax)),
							ShaderLocation: 2,
						},
						{
							// uv min
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(quadInstance{}.UVMin)),
							ShaderLocation: 3,
						},
						{
							// uv max
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(quadInstance{}.UVMax)),
							ShaderLocation: 4,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &conf.BlendState,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build quad pipeline: %w", err)
	}

	return pipeline, nil
}
