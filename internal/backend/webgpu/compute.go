//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/fringelab/chambolle/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// maxWorkgroups is the per-dimension dispatch limit guaranteed by WebGPU.
const maxWorkgroups = 65535

const (
	storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	stagingUsage = wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst
)

// binding is one storage or uniform buffer bound to a compute shader.
type binding struct {
	buffer *wgpu.Buffer
	size   uint64
}

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if shader, exists := b.shaders[name]; exists {
		return shader
	}
	shader := b.device.CreateShaderModuleWGSL(code)
	b.shaders[name] = shader
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if pipeline, exists := b.pipelines[name]; exists {
		return pipeline
	}
	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")
	b.pipelines[name] = pipeline
	return pipeline
}

// createBuffer creates a storage buffer holding data.
func (b *Backend) createBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer padded to 16-byte alignment.
// It returns the buffer and its padded size.
func (b *Backend) createUniformBuffer(data []byte) (*wgpu.Buffer, uint64) {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer, alignedSize
}

// readBuffer reads size bytes back from a GPU buffer to CPU memory
// through a pooled staging buffer.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.bufferPool.Acquire(size, stagingUsage)

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		staging.Release()
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	staging.Unmap()

	b.bufferPool.Release(staging, size, stagingUsage)
	return result, nil
}

// dispatch binds buffers in order to @binding(0..n) and runs the shader
// over enough workgroups to cover numThreads invocations.
func (b *Backend) dispatch(shaderName, shaderCode string, numThreads int, bindings ...binding) error {
	workgroups := (numThreads + workgroupSize - 1) / workgroupSize
	if workgroups > maxWorkgroups {
		return fmt.Errorf("%d elements exceed the dispatch limit of %d", numThreads, maxWorkgroups*workgroupSize)
	}

	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	entries := make([]wgpu.BindGroupEntry, len(bindings))
	for i, bnd := range bindings {
		//nolint:gosec // G115: binding count is tiny
		entries[i] = wgpu.BufferBindingEntry(uint32(i), bnd.buffer, 0, bnd.size)
	}
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: bounded by maxWorkgroups
	computePass.DispatchWorkgroups(uint32(workgroups), 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
	return nil
}

// params packs u32/f32 uniform fields little-endian, in order.
func params(fields ...any) []byte {
	buf := make([]byte, 4*len(fields))
	for i, f := range fields {
		switch v := f.(type) {
		case uint32:
			binary.LittleEndian.PutUint32(buf[4*i:], v)
		case int32:
			//nolint:gosec // G115: bit pattern reinterpretation
			binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
		case float32:
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		default:
			panic(fmt.Sprintf("webgpu: unsupported uniform field %T", f))
		}
	}
	return buf
}

// checkFloat32 validates that every input holds float32 data.
func checkFloat32(inputs ...*tensor.RawTensor) error {
	for _, x := range inputs {
		if x.DType() != tensor.Float32 {
			return fmt.Errorf("only float32 is supported, got %s", x.DType())
		}
	}
	return nil
}

// runElementwise uploads the inputs, runs an element-wise shader writing a
// result of the first input's shape, and reads the result back.
// The shader binds inputs first, then the result, then the uniform params.
func (b *Backend) runElementwise(
	shaderName, shaderCode string,
	uniform []byte,
	inputs ...*tensor.RawTensor,
) (*tensor.RawTensor, error) {
	if err := checkFloat32(inputs...); err != nil {
		return nil, err
	}
	for _, other := range inputs[1:] {
		if !inputs[0].Shape().Equal(other.Shape()) {
			return nil, fmt.Errorf("shape mismatch: %v vs %v", inputs[0].Shape(), other.Shape())
		}
	}

	//nolint:gosec // G115: ByteSize() returns non-negative int
	size := uint64(inputs[0].ByteSize())
	bindings := make([]binding, 0, len(inputs)+2)
	for _, x := range inputs {
		buf := b.createBuffer(x.Data())
		defer buf.Release()
		bindings = append(bindings, binding{buf, size})
	}

	bufferResult := b.bufferPool.Acquire(size, storageUsage)
	defer b.bufferPool.Release(bufferResult, size, storageUsage)
	bindings = append(bindings, binding{bufferResult, size})

	bufferParams, paramsSize := b.createUniformBuffer(uniform)
	defer bufferParams.Release()
	bindings = append(bindings, binding{bufferParams, paramsSize})

	if err := b.dispatch(shaderName, shaderCode, inputs[0].NumElements(), bindings...); err != nil {
		return nil, err
	}

	data, err := b.readBuffer(bufferResult, size)
	if err != nil {
		return nil, err
	}
	result, err := tensor.NewRaw(inputs[0].Shape(), tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), data)
	return result, nil
}

// runBinaryOp executes a binary element-wise operation (add, sub, mul, div) on GPU.
func (b *Backend) runBinaryOp(a, other *tensor.RawTensor, shaderName, shaderCode string) (*tensor.RawTensor, error) {
	//nolint:gosec // G115: NumElements() returns non-negative int
	return b.runElementwise(shaderName, shaderCode, params(uint32(a.NumElements())), a, other)
}

// runUnaryOp executes a unary element-wise operation on GPU.
func (b *Backend) runUnaryOp(x *tensor.RawTensor, shaderName, shaderCode string) (*tensor.RawTensor, error) {
	//nolint:gosec // G115: NumElements() returns non-negative int
	return b.runElementwise(shaderName, shaderCode, params(uint32(x.NumElements())), x)
}

// runScalarOp executes an element-wise operation with a scalar operand on GPU.
func (b *Backend) runScalarOp(x *tensor.RawTensor, scalar float32, shaderName, shaderCode string) (*tensor.RawTensor, error) {
	//nolint:gosec // G115: NumElements() returns non-negative int
	return b.runElementwise(shaderName, shaderCode, params(uint32(x.NumElements()), scalar), x)
}

// runPow raises x to exponent. Integral exponents are computed by repeated
// multiplication on the GPU, since WGSL pow is undefined for negative bases.
func (b *Backend) runPow(x *tensor.RawTensor, exponent float64) (*tensor.RawTensor, error) {
	var integral uint32
	n := int32(0)
	if exponent == math.Trunc(exponent) && math.Abs(exponent) <= math.MaxInt16 {
		integral = 1
		n = int32(exponent)
	}
	//nolint:gosec // G115: NumElements() returns non-negative int
	uniform := params(uint32(x.NumElements()), float32(exponent), n, integral)
	return b.runElementwise("pow", powShader, uniform, x)
}

// runStridedCopy copies outer blocks of block elements from src to dst:
// dst[o*dstRow + dstOffset + k] = src[o*srcRow + srcOffset + k].
// Narrow and Cat are both expressed as one such copy per input.
func (b *Backend) runStridedCopy(dst *wgpu.Buffer, dstSize uint64, src *tensor.RawTensor, outer, block, srcRow, srcOffset, dstRow, dstOffset int) error {
	bufferSrc := b.createBuffer(src.Data())
	defer bufferSrc.Release()

	//nolint:gosec // G115: extents are non-negative ints bounded by tensor size
	uniform := params(uint32(outer), uint32(block), uint32(srcRow), uint32(srcOffset), uint32(dstRow), uint32(dstOffset))
	bufferParams, paramsSize := b.createUniformBuffer(uniform)
	defer bufferParams.Release()

	//nolint:gosec // G115: ByteSize() returns non-negative int
	srcSize := uint64(src.ByteSize())
	return b.dispatch("stridedCopy", stridedCopyShader, outer*block,
		binding{bufferSrc, srcSize},
		binding{dst, dstSize},
		binding{bufferParams, paramsSize},
	)
}

// runPartialSums runs a workgroup reduction shader over x and returns the
// per-workgroup partial sums. The shader reduces f(x[i]) where f is chosen
// by the shader; center is passed through as a uniform.
func (b *Backend) runPartialSums(x *tensor.RawTensor, center float32, shaderName, shaderCode string) ([]float32, error) {
	if err := checkFloat32(x); err != nil {
		return nil, err
	}

	n := x.NumElements()
	groups := (n + workgroupSize - 1) / workgroupSize

	//nolint:gosec // G115: ByteSize() returns non-negative int
	inputSize := uint64(x.ByteSize())
	bufferInput := b.createBuffer(x.Data())
	defer bufferInput.Release()

	//nolint:gosec // G115: group count is non-negative
	partialSize := uint64(groups * 4)
	bufferPartial := b.bufferPool.Acquire(partialSize, storageUsage)
	defer b.bufferPool.Release(bufferPartial, partialSize, storageUsage)

	//nolint:gosec // G115: NumElements() returns non-negative int
	bufferParams, paramsSize := b.createUniformBuffer(params(uint32(n), center))
	defer bufferParams.Release()

	if err := b.dispatch(shaderName, shaderCode, n,
		binding{bufferInput, inputSize},
		binding{bufferPartial, partialSize},
		binding{bufferParams, paramsSize},
	); err != nil {
		return nil, err
	}

	data, err := b.readBuffer(bufferPartial, partialSize)
	if err != nil {
		return nil, err
	}
	partials := make([]float32, groups)
	for i := range partials {
		partials[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return partials, nil
}

// gather allocates a pooled result buffer for shape, lets fill write into it
// and reads the result back as a tensor.
func (b *Backend) gather(shape tensor.Shape, fill func(dst *wgpu.Buffer, size uint64) error) (*tensor.RawTensor, error) {
	result, err := tensor.NewRaw(shape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G115: ByteSize() returns non-negative int
	size := uint64(result.ByteSize())
	dst := b.bufferPool.Acquire(size, storageUsage)
	defer b.bufferPool.Release(dst, size, storageUsage)

	if err := fill(dst, size); err != nil {
		return nil, err
	}
	data, err := b.readBuffer(dst, size)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), data)
	return result, nil
}
