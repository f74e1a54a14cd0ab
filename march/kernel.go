package march

import (
	"fmt"
	"strconv"
	"strings"
)

// KernelSource is implemented by scenes and shaders that can run on a GPU
// backend. A scene provides scene_distance/sceneDistance, a shader provides
// shade.
type KernelSource interface {
	WGSL() string
	GLSL() string
}

// lit formats v as a float literal valid in both WGSL and GLSL.
func lit(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (s Sphere) WGSL() string {
	return fmt.Sprintf(`
fn scene_distance(p: vec3f) -> f32 {
    return length(p) - %v;
}
`, lit(s.Radius))
}

func (s Sphere) GLSL() string {
	return fmt.Sprintf(`
float sceneDistance(vec3 p) {
    return length(p) - %v;
}
`, lit(s.Radius))
}

func (s SphereLattice) WGSL() string {
	return fmt.Sprintf(`
fn wrap_unit(v: f32) -> f32 {
    return (v - trunc(v)) * select(-1.0, 1.0, v >= 0.0);
}

fn scene_distance(p: vec3f) -> f32 {
    let instance = vec3f(wrap_unit(p.x), wrap_unit(p.y), p.z) - vec3f(0.5, 0.5, 0.5);
    return length(instance) - %v;
}
`, lit(s.Radius))
}

func (s SphereLattice) GLSL() string {
	return fmt.Sprintf(`
float wrapUnit(float v) {
    return (v - trunc(v)) * (v >= 0.0 ? 1.0 : -1.0);
}

float sceneDistance(vec3 p) {
    vec3 instance = vec3(wrapUnit(p.x), wrapUnit(p.y), p.z) - vec3(0.5, 0.5, 0.5);
    return length(instance) - %v;
}
`, lit(s.Radius))
}

func (s Sierpinski) WGSL() string {
	return fmt.Sprintf(`
fn scene_distance(p_in: vec3f) -> f32 {
    var corners = array<vec3f, 4>(
        vec3f(1.0, 1.0, 1.0),
        vec3f(-1.0, -1.0, 1.0),
        vec3f(1.0, -1.0, -1.0),
        vec3f(-1.0, 1.0, -1.0),
    );
    let scale = %[1]v;
    var p = p_in;
    for (var n = 0; n < %[2]v; n++) {
        var nearest = corners[0];
        var best = length(p - nearest);
        for (var k = 1; k < 4; k++) {
            let d = length(p - corners[k]);
            if (d < best) {
                nearest = corners[k];
                best = d;
            }
        }
        p = scale * p - nearest * (scale - 1.0);
    }
    return length(p) * pow(scale, -%[2]v.0);
}
`, lit(s.Scale), s.Iterations)
}

func (s Sierpinski) GLSL() string {
	return fmt.Sprintf(`
float sceneDistance(vec3 p) {
    vec3 corners[4] = vec3[4](
        vec3(1.0, 1.0, 1.0),
        vec3(-1.0, -1.0, 1.0),
        vec3(1.0, -1.0, -1.0),
        vec3(-1.0, 1.0, -1.0)
    );
    float scale = %[1]v;
    for (int n = 0; n < %[2]v; n++) {
        vec3 nearest = corners[0];
        float best = length(p - nearest);
        for (int k = 1; k < 4; k++) {
            float d = length(p - corners[k]);
            if (d < best) {
                nearest = corners[k];
                best = d;
            }
        }
        p = scale * p - nearest * (scale - 1.0);
    }
    return length(p) * pow(scale, -%[2]v.0);
}
`, lit(s.Scale), s.Iterations)
}

// wgslPointLight and glslPointLight take the specular angle expression,
// written in terms of light_dir/lightDir, normal and ray_dir/rayDir.
const wgslPointLight = `
fn shade(ray_dir: vec3f, normal: vec3f, point: vec3f, n: i32) -> vec3f {
    let to_light = params.light_position - point;
    let light_distance_sq = dot(to_light, to_light);
    let light_dir = normalize(to_light);
    let lambertian = dot(normal, light_dir);
    if (!(lambertian > 0.0)) {
        return vec3f(0.0);
    }
    let specular = %v * params.specular_power;
    let diffuse = lambertian * params.diffuse_power;
    let fog = -f32(n) / params.max_steps;
    return vec3f(fog) + (diffuse * params.diffuse_color + specular * params.specular_color) / light_distance_sq;
}
`

const glslPointLight = `
vec3 shade(vec3 rayDir, vec3 normal, vec3 point, int n) {
    vec3 toLight = u_lightPosition - point;
    float lightDistanceSq = dot(toLight, toLight);
    vec3 lightDir = normalize(toLight);
    float lambertian = dot(normal, lightDir);
    if (!(lambertian > 0.0)) {
        return vec3(0.0);
    }
    float specular = %v * u_specularPower;
    float diffuse = lambertian * u_diffusePower;
    float fog = -float(n) / float(u_maxSteps);
    return vec3(fog) + (diffuse * u_diffuseColor + specular * u_specularColor) / lightDistanceSq;
}
`

func (BlinnPhong) WGSL() string {
	return fmt.Sprintf(wgslPointLight,
		fmt.Sprintf("pow(max(0.0, dot(normalize(light_dir - normalize(ray_dir)), normal)), %v)", lit(BlinnPhongShininess)))
}

func (BlinnPhong) GLSL() string {
	return fmt.Sprintf(glslPointLight,
		fmt.Sprintf("pow(max(0.0, dot(normalize(lightDir - normalize(rayDir)), normal)), %v)", lit(BlinnPhongShininess)))
}

func (Phong) WGSL() string {
	return fmt.Sprintf(wgslPointLight,
		fmt.Sprintf("pow(max(0.0, dot(light_dir - 2.0 * dot(light_dir, normal) * normal, normalize(ray_dir))), %v)", lit(PhongShininess)))
}

func (Phong) GLSL() string {
	return fmt.Sprintf(glslPointLight,
		fmt.Sprintf("pow(max(0.0, dot(lightDir - 2.0 * dot(lightDir, normal) * normal, normalize(rayDir))), %v)", lit(PhongShininess)))
}

func (Steps) WGSL() string {
	return `
fn shade(ray_dir: vec3f, normal: vec3f, point: vec3f, n: i32) -> vec3f {
    return vec3f(1.0 - f32(n) / params.max_steps);
}
`
}

func (Steps) GLSL() string {
	return `
vec3 shade(vec3 rayDir, vec3 normal, vec3 point, int n) {
    return vec3(1.0 - float(n) / float(u_maxSteps));
}
`
}

// ShaderLight returns the light used by shader, or the zero Light for unlit shaders.
func ShaderLight(shader Shader) Light {
	switch s := shader.(type) {
	case BlinnPhong:
		return s.Light
	case Phong:
		return s.Light
	}
	return Light{}
}

func kernelSources(scene Scene, shader Shader) (KernelSource, KernelSource, error) {
	ks, ok := scene.(KernelSource)
	if !ok {
		return nil, nil, fmt.Errorf("scene %T has no GPU kernel", scene)
	}
	kl, ok := shader.(KernelSource)
	if !ok {
		return nil, nil, fmt.Errorf("shader %T has no GPU kernel", shader)
	}
	return ks, kl, nil
}

// UniformSize is the size in bytes of the WGSL Params uniform block.
const UniformSize = 4 * 24

// Uniforms packs params and light in the layout of the WGSL Params struct.
func Uniforms(params ImageParameters, light Light) []float32 {
	u := make([]float32, UniformSize/4)
	copy(u[0:3], params.CameraPosition[:])
	u[3] = params.MinDistance
	copy(u[4:7], params.CameraDirection[:])
	u[7] = params.maxDistance()
	copy(u[8:11], light.Position[:])
	u[11] = light.DiffusePower
	copy(u[12:15], light.DiffuseColor[:])
	u[15] = light.SpecularPower
	copy(u[16:19], light.SpecularColor[:])
	u[19] = float32(params.MaxSteps)
	u[20] = float32(params.Width)
	u[21] = float32(params.Height)
	return u
}

// WGSLKernel assembles the compute shader for scene and shader. The entry
// point is main_image, dispatched with 8x8 workgroups over a
// texture_storage_2d<rgba8unorm, write> bound at group 0, binding 1.
func WGSLKernel(scene Scene, shader Shader) (string, error) {
	ks, kl, err := kernelSources(scene, shader)
	if err != nil {
		return "", err
	}
	return wgslHeader + ks.WGSL() + kl.WGSL() + wgslMain, nil
}

// GLSLFragment assembles the fragment shader for scene and shader.
func GLSLFragment(scene Scene, shader Shader) (string, error) {
	ks, kl, err := kernelSources(scene, shader)
	if err != nil {
		return "", err
	}
	return glslHeader + ks.GLSL() + kl.GLSL() + glslMain + "\x00", nil
}

const wgslHeader = `
struct Params {
    camera_position: vec3f,
    min_distance: f32,
    camera_direction: vec3f,
    max_distance: f32,
    light_position: vec3f,
    diffuse_power: f32,
    diffuse_color: vec3f,
    specular_power: f32,
    specular_color: vec3f,
    max_steps: f32,
    width: f32,
    height: f32,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var out_tex: texture_storage_2d<rgba8unorm, write>;
`

const wgslMain = `
fn estimate_normal(p: vec3f, eps: f32) -> vec3f {
    let dx = vec3f(eps, 0.0, 0.0);
    let dy = vec3f(0.0, eps, 0.0);
    let dz = vec3f(0.0, 0.0, eps);
    return normalize(vec3f(
        scene_distance(p + dx) - scene_distance(p - dx),
        scene_distance(p + dy) - scene_distance(p - dy),
        scene_distance(p + dz) - scene_distance(p - dz),
    ));
}

@compute @workgroup_size(8, 8)
fn main_image(@builtin(global_invocation_id) id: vec3u) {
    let width = u32(params.width);
    let height = u32(params.height);
    if (id.x >= width || id.y >= height) {
        return;
    }
    let i = f32(id.x);
    let j = f32(height - 1u - id.y);

    let forward = normalize(params.camera_direction);
    var right = cross(forward, vec3f(0.0, 0.0, 1.0));
    var up = vec3f(0.0, 1.0, 0.0);
    if (dot(right, right) < 1e-12) {
        right = vec3f(1.0, 0.0, 0.0);
    } else {
        up = cross(right, forward);
    }
    let x = (i / params.width - 0.5) * (params.width / params.height);
    let y = j / params.height - 0.5;
    let dir = params.camera_direction + x * right + y * up;

    var color = vec3f(0.0);
    var total = 0.0;
    let max_steps = i32(params.max_steps);
    for (var n = 0; n < max_steps; n++) {
        let p = params.camera_position + total * dir;
        let d = scene_distance(p);
        if (d > params.max_distance) {
            break;
        }
        total += d;
        if (d <= params.min_distance) {
            color = shade(dir, estimate_normal(p, params.min_distance / 10.0), p, n);
            break;
        }
    }
    textureStore(out_tex, vec2i(i32(id.x), i32(id.y)), vec4f(clamp(color, vec3f(0.0), vec3f(1.0)), 1.0));
}
`

// GLSLVertex draws the two-triangle quad in FullscreenQuad.
const GLSLVertex = "#version 330\nin vec2 vert;\nvoid main() {\n\tgl_Position = vec4(vert, 0.0, 1.0);\n}\x00"

// FullscreenQuad covers clip space with two triangles.
var FullscreenQuad = []float32{
	//  X, Y
	-1.0, -1.0, // ll
	1.0, -1.0, // lr
	-1.0, 1.0, // ul
	1.0, -1.0, // lr
	1.0, 1.0, // ur
	-1.0, 1.0, // ul
}

const glslHeader = `#version 330
precision highp float;
precision highp int;
out vec4 outputColor;
uniform vec3 u_cameraPosition;
uniform vec3 u_cameraDirection;
uniform float u_minDistance;
uniform float u_maxDistance;
uniform int u_maxSteps;
uniform float u_width;
uniform float u_height;
uniform vec3 u_lightPosition;
uniform vec3 u_diffuseColor;
uniform float u_diffusePower;
uniform vec3 u_specularColor;
uniform float u_specularPower;
`

const glslMain = `
vec3 estimateNormal(vec3 p, float eps) {
    vec3 dx = vec3(eps, 0.0, 0.0);
    vec3 dy = vec3(0.0, eps, 0.0);
    vec3 dz = vec3(0.0, 0.0, eps);
    return normalize(vec3(
        sceneDistance(p + dx) - sceneDistance(p - dx),
        sceneDistance(p + dy) - sceneDistance(p - dy),
        sceneDistance(p + dz) - sceneDistance(p - dz)
    ));
}

void main() {
    float i = floor(gl_FragCoord.x);
    float j = u_height - 1.0 - floor(gl_FragCoord.y);

    vec3 forward = normalize(u_cameraDirection);
    vec3 right = cross(forward, vec3(0.0, 0.0, 1.0));
    vec3 up = vec3(0.0, 1.0, 0.0);
    if (dot(right, right) < 1e-12) {
        right = vec3(1.0, 0.0, 0.0);
    } else {
        up = cross(right, forward);
    }
    float x = (i / u_width - 0.5) * (u_width / u_height);
    float y = j / u_height - 0.5;
    vec3 dir = u_cameraDirection + x * right + y * up;

    vec3 color = vec3(0.0);
    float total = 0.0;
    for (int n = 0; n < u_maxSteps; n++) {
        vec3 p = u_cameraPosition + total * dir;
        float d = sceneDistance(p);
        if (d > u_maxDistance) {
            break;
        }
        total += d;
        if (d <= u_minDistance) {
            color = shade(dir, estimateNormal(p, u_minDistance / 10.0), p, n);
            break;
        }
    }
    outputColor = vec4(clamp(color, 0.0, 1.0), 1.0);
}
`
