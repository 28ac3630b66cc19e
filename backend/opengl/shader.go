package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GUI UVs have their origin at the top, GL textures at the bottom.
const meshVertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;

out vec2 UV;
out vec4 Color;

uniform mat4 mvp;

void main() {
    gl_Position = mvp * vec4(aPos, 0.0, 1.0);
    UV = vec2(aUV.x, 1.0 - aUV.y);
    Color = aColor;
}
` + "\x00"

// Vertices are read from a buffer texture of 32-bit words, five per vertex.
// gl_VertexID already includes the base vertex of the indirect command.
const proceduralVertexShaderSource = `
#version 410 core
uniform usamplerBuffer vertices;
uniform mat4 mvp;

out vec2 UV;
out vec4 Color;

void main() {
    int base = gl_VertexID * 5;
    vec2 pos = uintBitsToFloat(uvec2(texelFetch(vertices, base).r, texelFetch(vertices, base + 1).r));
    vec2 uv = uintBitsToFloat(uvec2(texelFetch(vertices, base + 2).r, texelFetch(vertices, base + 3).r));
    gl_Position = mvp * vec4(pos, 0.0, 1.0);
    UV = vec2(uv.x, 1.0 - uv.y);
    Color = unpackUnorm4x8(texelFetch(vertices, base + 4).r);
}
` + "\x00"

const fragmentShaderSource = `
#version 410 core
in vec2 UV;
in vec4 Color;

out vec4 FragColor;

uniform sampler2D tex;

void main() {
    FragColor = Color * texture(tex, UV);
}
` + "\x00"

// program is a linked shader program and its uniform locations.
type program struct {
	id          uint32
	mvpLoc      int32
	texLoc      int32
	verticesLoc int32
}

func newProgram(vertexSource string) (*program, error) {
	id, err := createShaderProgram(vertexSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	return &program{
		id:          id,
		mvpLoc:      gl.GetUniformLocation(id, gl.Str("mvp\x00")),
		texLoc:      gl.GetUniformLocation(id, gl.Str("tex\x00")),
		verticesLoc: gl.GetUniformLocation(id, gl.Str("vertices\x00")),
	}, nil
}

func (p *program) delete() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, fmt.Errorf("vertex shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, fmt.Errorf("fragment shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}
	return program, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", string(log))
	}
	return shader, nil
}
