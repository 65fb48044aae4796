//go:build windows

package webgpu

// WGSL compute shaders for the solver's element-wise and reduction kernels.
// Using string constants instead of embed for simplicity.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// binaryShader builds an element-wise shader computing result = a <op> b.
func binaryShader(op string) string {
	return `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] ` + op + ` b[idx];
    }
}
`
}

var (
	addShader = binaryShader("+")
	subShader = binaryShader("-")
	mulShader = binaryShader("*")
	divShader = binaryShader("/")
)

// sqrtShader performs element-wise square root: result = sqrt(x).
const sqrtShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = sqrt(input[idx]);
    }
}
`

// scalarMulShader performs scalar multiplication: result = x * scalar.
const scalarMulShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    scalar: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = input[idx] * params.scalar;
    }
}
`

// scalarAddShader performs scalar addition: result = x + scalar.
const scalarAddShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    scalar: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = input[idx] + params.scalar;
    }
}
`

// powShader performs element-wise power: result = x^exponent.
// Integral exponents use repeated multiplication so negative bases work.
const powShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    exponent: f32,
    int_exponent: i32,
    integral: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.size) {
        return;
    }
    let x = input[idx];
    if (params.integral == 0u) {
        result[idx] = pow(x, params.exponent);
        return;
    }
    var acc: f32 = 1.0;
    let n = abs(params.int_exponent);
    for (var i: i32 = 0; i < n; i = i + 1) {
        acc = acc * x;
    }
    if (params.int_exponent < 0) {
        acc = 1.0 / acc;
    }
    result[idx] = acc;
}
`

// stridedCopyShader copies outer blocks of block elements between row
// layouts; Narrow and Cat are both built on it.
const stridedCopyShader = `
@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read_write> dst: array<f32>;

struct Params {
    outer: u32,
    block: u32,
    src_row: u32,
    src_offset: u32,
    dst_row: u32,
    dst_offset: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.outer * params.block) {
        return;
    }
    let o = idx / params.block;
    let k = idx % params.block;
    dst[o * params.dst_row + params.dst_offset + k] = src[o * params.src_row + params.src_offset + k];
}
`

// partialSumShader builds a workgroup tree reduction of term(x) where term
// is a WGSL expression over x and params.center. Each workgroup writes one
// partial sum; the host adds the partials in float64.
func partialSumShader(term string) string {
	return `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    center: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> shared_data: array<f32, 256>;

@compute @workgroup_size(256)
fn main(
    @builtin(global_invocation_id) global_id: vec3<u32>,
    @builtin(local_invocation_id) local_id: vec3<u32>,
    @builtin(workgroup_id) workgroup_id: vec3<u32>
) {
    let tid = local_id.x;
    let gid = global_id.x;

    if (gid < params.size) {
        let x = input[gid];
        shared_data[tid] = ` + term + `;
    } else {
        shared_data[tid] = 0.0;
    }
    workgroupBarrier();

    for (var s: u32 = 128u; s > 0u; s = s >> 1u) {
        if (tid < s) {
            shared_data[tid] = shared_data[tid] + shared_data[tid + s];
        }
        workgroupBarrier();
    }

    if (tid == 0u) {
        result[workgroup_id.x] = shared_data[0];
    }
}
`
}

var (
	// sumShader reduces x.
	sumShader = partialSumShader("x")
	// squaredDeviationShader reduces (x - center)^2.
	squaredDeviationShader = partialSumShader("(x - params.center) * (x - params.center)")
)
