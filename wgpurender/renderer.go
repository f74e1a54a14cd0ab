// Package wgpurender sphere-traces scenes in a WebGPU compute pass.
package wgpurender

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gmlewis/fractal-renderer/march"
)

const workgroupSize = 8

// Renderer is a march.Renderer implementation using a WebGPU compute shader
// that writes into an rgba8unorm storage texture.
type Renderer struct {
	width       int
	height      int
	view        bool
	bytesPerRow uint32

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	pipeline      *wgpu.ComputePipeline
	bindGroup     *wgpu.BindGroup
	uniformBuffer *wgpu.Buffer
	readBuffer    *wgpu.Buffer
	targetTexture *wgpu.Texture
	targetView    *wgpu.TextureView

	light march.Light
}

var _ march.Renderer = &Renderer{}

// Init acquires a device and allocates the size-dependent resources. view is
// ignored; the compute path never opens a window.
func (r *Renderer) Init(width, height int, view bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bad image size %vx%v", width, height)
	}
	r.view = view

	if r.instance == nil {
		r.instance = wgpu.CreateInstance(nil)
		if r.instance == nil {
			return errors.New("failed to create wgpu instance")
		}

		var err error
		r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
		if err != nil {
			return fmt.Errorf("failed to request wgpu adapter: %w", err)
		}

		r.device, err = r.adapter.RequestDevice(nil)
		if err != nil {
			return fmt.Errorf("failed to request wgpu device: %w", err)
		}

		r.queue = r.device.GetQueue()

		r.uniformBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Uniform Buffer",
			Size:  march.UniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create uniform buffer: %w", err)
		}
	}

	if r.targetTexture != nil && r.width == width && r.height == height {
		return nil
	}
	r.releaseTarget()
	r.width = width
	r.height = height

	var err error
	r.targetTexture, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Storage Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(r.width),
			Height:             uint32(r.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage texture: %w", err)
	}
	r.targetView, err = r.targetTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create texture view: %w", err)
	}

	// Rows copied out of a texture must be 256-byte aligned.
	r.bytesPerRow = (uint32(r.width*4) + 255) &^ 255
	r.readBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Read Buffer",
		Size:  uint64(r.bytesPerRow * uint32(r.height)),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create read buffer: %w", err)
	}

	// A previous pipeline is bound to the old texture view.
	r.releasePipeline()
	return nil
}

// Prepare compiles the kernel for scene and shader. Both must implement
// march.KernelSource.
func (r *Renderer) Prepare(scene march.Scene, shader march.Shader) error {
	if r.device == nil {
		return errors.New("renderer not initialized")
	}
	r.releasePipeline()

	shaderSource, err := march.WGSLKernel(scene, shader)
	if err != nil {
		return err
	}
	r.light = march.ShaderLight(shader)

	shaderModule, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Sphere Tracer",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}
	defer shaderModule.Release()

	bindGroupLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccessWriteOnly,
					Format:        wgpu.TextureFormatRGBA8Unorm,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}
	defer bindGroupLayout.Release()

	r.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.uniformBuffer,
				Size:    march.UniformSize,
			},
			{
				Binding:     1,
				TextureView: r.targetView,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "Sphere Tracer",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shaderModule,
			EntryPoint: "main_image",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline: %w", err)
	}

	return nil
}

// Render dispatches the kernel and reads the storage texture back as an
// RGBA8 buffer with the same row order as march.Render.
func (r *Renderer) Render(params march.ImageParameters) ([]byte, error) {
	if r.pipeline == nil {
		return nil, errors.New("renderer not prepared")
	}
	if err := march.CheckSize(params, r.width, r.height); err != nil {
		return nil, err
	}

	r.queue.WriteBuffer(r.uniformBuffer, 0, wgpu.ToBytes(march.Uniforms(params, r.light)))

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(r.pipeline)
	computePass.SetBindGroup(0, r.bindGroup, nil)
	computePass.DispatchWorkgroups(
		(uint32(r.width)+workgroupSize-1)/workgroupSize,
		(uint32(r.height)+workgroupSize-1)/workgroupSize,
		1,
	)
	if err := computePass.End(); err != nil {
		computePass.Release()
		return nil, err
	}
	computePass.Release()

	// Copy texture to read buffer
	encoder.CopyTextureToBuffer(
		r.targetTexture.AsImageCopy(),
		&wgpu.ImageCopyBuffer{
			Buffer: r.readBuffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  r.bytesPerRow,
				RowsPerImage: uint32(r.height),
			},
		},
		&wgpu.Extent3D{
			Width:              uint32(r.width),
			Height:             uint32(r.height),
			DepthOrArrayLayers: 1,
		},
	)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	r.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	// Map buffer and read pixels
	done := make(chan struct{})
	var mapStatus wgpu.BufferMapAsyncStatus
	r.readBuffer.MapAsync(wgpu.MapModeRead, 0, uint64(r.bytesPerRow*uint32(r.height)), func(status wgpu.BufferMapAsyncStatus) {
		mapStatus = status
		close(done)
	})

	for {
		r.device.Poll(false, nil)
		select {
		case <-done:
			goto mapped
		default:
			// continue polling
		}
	}

mapped:
	if mapStatus != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("failed to map read buffer: %v", mapStatus)
	}

	data := r.readBuffer.GetMappedRange(0, uint(r.bytesPerRow*uint32(r.height)))
	pix := unpadRows(data, r.width, r.height, int(r.bytesPerRow))
	r.readBuffer.Unmap()

	return pix, nil
}

// unpadRows copies height rows of width RGBA pixels out of a buffer whose
// rows are bytesPerRow apart.
func unpadRows(data []byte, width, height, bytesPerRow int) []byte {
	rowLen := width * 4
	pix := make([]byte, rowLen*height)
	for y := 0; y < height; y++ {
		srcStart := y * bytesPerRow
		copy(pix[y*rowLen:(y+1)*rowLen], data[srcStart:srcStart+rowLen])
	}
	return pix
}

func (r *Renderer) releasePipeline() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
}

func (r *Renderer) releaseTarget() {
	if r.readBuffer != nil {
		r.readBuffer.Release()
		r.readBuffer = nil
	}
	if r.targetView != nil {
		r.targetView.Release()
		r.targetView = nil
	}
	if r.targetTexture != nil {
		r.targetTexture.Release()
		r.targetTexture = nil
	}
}

func (r *Renderer) Close() {
	r.releasePipeline()
	r.releaseTarget()
	if r.uniformBuffer != nil {
		r.uniformBuffer.Release()
		r.uniformBuffer = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}
