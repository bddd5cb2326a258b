package stream

// indexHTML draws frames from /ws on a canvas. Left click ignites, right
// click toggles a barrier, space pauses and R resets.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>wildfire</title>
<style>
body { background: #111; color: #ddd; font: 13px monospace; margin: 12px; }
canvas { image-rendering: pixelated; border: 1px solid #333; cursor: crosshair; }
</style>
</head>
<body>
<canvas id="grid"></canvas>
<div id="hud">connecting</div>
<script>
const palette = [[15,15,15],[46,160,67],[20,110,55],[255,69,0],[120,120,130]];
const scale = 4;
const canvas = document.getElementById("grid");
const hud = document.getElementById("hud");
const ctx = canvas.getContext("2d");
let frame = null;

function draw(f) {
  if (canvas.width !== f.width * scale) {
    canvas.width = f.width * scale;
    canvas.height = f.height * scale;
  }
  const img = ctx.createImageData(f.width, f.height);
  for (let i = 0; i < f.cells.length; i++) {
    const c = palette[f.cells.charCodeAt(i) - 48] || palette[0];
    img.data[i*4] = c[0]; img.data[i*4+1] = c[1]; img.data[i*4+2] = c[2]; img.data[i*4+3] = 255;
  }
  createImageBitmap(img).then(bmp => {
    ctx.imageSmoothingEnabled = false;
    ctx.drawImage(bmp, 0, 0, canvas.width, canvas.height);
  });
  const c = f.census;
  hud.textContent = "step " + f.step + (f.paused ? " (paused)" : "") +
    "  trees " + (c.deciduous + c.conifer) + "  burning " + c.burning + "  barriers " + c.barrier;
}

function post(path, body) {
  return fetch(path, {method: "POST", body: body ? JSON.stringify(body) : null});
}

function cellAt(ev) {
  const r = canvas.getBoundingClientRect();
  return {row: Math.floor((ev.clientY - r.top) / scale), col: Math.floor((ev.clientX - r.left) / scale)};
}

canvas.addEventListener("click", ev => post("/ignite", cellAt(ev)));
canvas.addEventListener("contextmenu", ev => { ev.preventDefault(); post("/barrier", cellAt(ev)); });
document.addEventListener("keydown", ev => {
  if (ev.key === " ") post(frame && frame.paused ? "/resume" : "/pause");
  if (ev.key === "r") post("/reset");
  if (ev.key === "n") post("/step");
});

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = ev => { frame = JSON.parse(ev.data); draw(frame); };
ws.onclose = () => { hud.textContent = "disconnected"; };
</script>
</body>
</html>
`
