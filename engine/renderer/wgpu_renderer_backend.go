package renderer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackendImpl draws the tube into a window surface with WebGPU.
// All calls arrive serialized through the Renderer.
type wgpuRendererBackendImpl struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	background  common.Color

	shaderSource   string
	pipeline       pipeline.Pipeline
	pipelineLayout *wgpu.PipelineLayout
	provider       bind_group_provider.BindGroupProvider
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

var tubeVertexAttributes = []wgpu.VertexAttribute{
	{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
	{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
}

func primitiveTopology(t MeshTopology) wgpu.PrimitiveTopology {
	switch t {
	case TopologyLines:
		return wgpu.PrimitiveTopologyLineList
	case TopologyTriangles:
		return wgpu.PrimitiveTopologyTriangleList
	default:
		return wgpu.PrimitiveTopologyPointList
	}
}

// blendMode keeps surfaces opaque and lets thin points and lines blend over each other.
func blendMode(t MeshTopology) pipeline.BlendMode {
	if t == TopologyTriangles {
		return pipeline.BlendOpaque
	}
	return pipeline.BlendAlpha
}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, mode PresentMode, background common.Color) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		instance:    wgpu.CreateInstance(nil),
		sampleCount: sampleCount,
		background:  background,
		provider:    bind_group_provider.NewBindGroupProvider("Tube"),
	}
	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, common.RenderUnavailable("request adapter", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Tube Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, common.RenderUnavailable("request device", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initBindGroup(); err != nil {
		b.Release()
		return nil, common.RenderUnavailable("init bind group", err)
	}
	return b, nil
}

// initBindGroup expands the tube shader and creates one uniform buffer per declared binding,
// their layout and the bind group.
func (b *wgpuRendererBackendImpl) initBindGroup() error {
	src, bindings, err := tubeShader()
	if err != nil {
		return err
	}
	b.shaderSource = src

	layoutEntries := make([]wgpu.BindGroupLayoutEntry, 0, len(bindings))
	groupEntries := make([]wgpu.BindGroupEntry, 0, len(bindings))
	for _, binding := range bindings {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s Uniform %d", b.provider.Label(), binding),
			Size:  uniformSizes[binding],
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.provider.SetBuffer(binding, buf)
		layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		})
		groupEntries = append(groupEntries, wgpu.BindGroupEntry{
			Binding: uint32(binding),
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		})
	}

	bgl, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   b.provider.Label() + " Bind Group Layout",
		Entries: layoutEntries,
	})
	if err != nil {
		return err
	}
	b.provider.SetBindGroupLayout(bgl)

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   b.provider.Label() + " Bind Group",
		Layout:  bgl,
		Entries: groupEntries,
	})
	if err != nil {
		return err
	}
	b.provider.SetBindGroup(bg)

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            b.provider.Label() + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	return err
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no formats")
	}
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()
	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		b.msaaTexture = tex
		if b.msaaTextureView, err = tex.CreateView(nil); err != nil {
			return err
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	b.depthTexture = depth
	if b.depthTextureView, err = depth.CreateView(nil); err != nil {
		return err
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	bg := b.background
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set per frame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: wgpu.Color{R: float64(bg.R), G: float64(bg.G), B: float64(bg.B), A: float64(bg.A)},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *wgpuRendererBackendImpl) Upload(mesh Mesh) error {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return errors.New("empty mesh")
	}
	vertexData := common.SliceToBytes(mesh.Vertices)
	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)
	b.provider.SetVertexBuffer(vbuf)

	indexData := common.SliceToBytes(mesh.Indices)
	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)
	b.provider.SetIndexBuffer(ibuf)
	b.provider.SetIndexCount(len(mesh.Indices))

	b.pipeline = pipeline.NewPipeline("Tube", b.shaderSource,
		pipeline.WithTopology(primitiveTopology(mesh.Topology)),
		pipeline.WithVertexLayout(28, tubeVertexAttributes...),
		pipeline.WithBlend(blendMode(mesh.Topology)),
		pipeline.WithDepth(true, mesh.Topology == TopologyTriangles),
	)
	_, err = b.pipeline.Build(b.device, b.pipelineLayout, *b.surfaceFormat, uint32(b.sampleCount))
	return err
}

func (b *wgpuRendererBackendImpl) Draw(f scene.Frame) error {
	if b.pipeline == nil || !b.provider.Ready() {
		return errors.New("nothing uploaded")
	}

	cam := camera.GPUCameraUniform{ViewProj: f.ViewProjection, CameraPosition: f.Eye, PointSize: f.PointSize}
	lights := light.NewGPULightBlock(f.Lights, f.Ambient)
	params := NewGPUSceneParams(b.background, f.FogDensity)
	bind_group_provider.WriteAll(b.queue, []bind_group_provider.BufferWrite{
		{Provider: b.provider, Binding: bindingCamera, Data: cam.Marshal()},
		{Provider: b.provider, Binding: bindingLights, Data: lights.Marshal()},
		{Provider: b.provider, Binding: bindingScene, Data: params.Marshal()},
	})

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.pipeline.RenderPipeline())
	pass.SetBindGroup(0, b.provider.BindGroup(), nil)
	pass.SetVertexBuffer(0, b.provider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(b.provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(b.provider.IndexCount()), 1, 0, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()
	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	b.provider.Release()
	b.releaseTargets()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
