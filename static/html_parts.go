package static

var (
	Part1 = `
    <!DOCTYPE html>
    <html>
    <head>
        <title>Выпуклая оболочка</title>
		<style>
			body {
				background-color: #1F1F1F; /* Темный фон для всей страницы */
				color: #d3d3d3; /* Светло-серый текст */
				font-family: Consolas, monospace;
				overflow: hidden; /* Запретить прокрутку */
			}

			#container {
				display: flex;
				width: 100%;
				height: 100vh;
				box-sizing: border-box;
			}

			#left-container {
				width: 50%;
				padding: 10px;
				box-sizing: border-box;
				overflow-y: auto; /* таблица точек может быть длинной */
			}

			#right-container {
				width: 50%;
				padding: 10px;
				box-sizing: border-box;
				border-left: 5px solid #757575; /* Темная граница для правого контейнера */
				overflow-y: auto; /* Вертикальная прокрутка для логов */
				overflow-x: auto;
				background-color: #1e1e1e; /* Темный фон для контейнера логов */
			}

			#logs {
				white-space: pre-wrap; /* Сохраняем пробелы и переносим строки */
				word-wrap: break-word; /* Перенос длинных слов */
				color: #d3d3d3;
				font-family: Consolas, monospace;
			}

			input[type="number"],
			input[type="submit"],
			button {
				background-color: #2b2b2b; /* Темный фон для полей ввода */
				color: #d3d3d3;
				border: 1px solid #444;
				padding: 5px;
				margin: 5px 0;
				border-radius: 4px;
			}

			input[type="number"] {
				width: 90px;
			}

			label, a {
				color: #d3d3d3;
			}

			h1 {
				color: #d3d3d3;
			}

			input[type="submit"]:hover,
			button:hover {
				background-color: #444; /* Немного светлее при наведении */
				cursor: pointer;
			}

			table {
				border-collapse: collapse;
				margin-top: 10px;
			}

			td, th {
				border: 1px solid #444;
				padding: 2px 6px;
			}

			.swatch {
				display: inline-block;
				width: 12px;
				height: 12px;
				border-radius: 6px;
			}

			::-webkit-scrollbar {
				width: 8px;
			}

			::-webkit-scrollbar-thumb {
				background-color: #444; /* Цвет ползунка */
				border-radius: 10px;
			}

			::-webkit-scrollbar-track {
				background-color: #2b2b2b; /* Цвет области прокрутки */
			}
        </style>
    </head>
    <body>
        <div id="container">
            <div id="left-container">
                <h1>Опорные точки</h1>
                <form method="POST">
                    <input type="hidden" name="action" value="add">
                    <label>X <input type="number" name="x" value="1" step="any"></label>
                    <label>Y <input type="number" name="y" value="1" step="any"></label>
                    <label>Z <input type="number" name="z" value="1" step="any"></label><br>
                    <label><input type="checkbox" name="mirror" value="mirrorX">mirrorX</label>
                    <label><input type="checkbox" name="mirror" value="mirrorY">mirrorY</label>
                    <label><input type="checkbox" name="mirror" value="mirrorZ">mirrorZ</label><br>
                    <label><input type="checkbox" name="mirror" value="radialMirrorX">radialMirrorX</label>
                    <label><input type="checkbox" name="mirror" value="radialMirrorY">radialMirrorY</label>
                    <label><input type="checkbox" name="mirror" value="radialMirrorZ">radialMirrorZ</label>
                    <label><input type="checkbox" name="mirror" value="radialMirrorO">radialMirrorO</label><br>
                    <input type="submit" value="Добавить">
                </form>
                <form method="POST">
                    <input type="hidden" name="action" value="random">
                    <label>Случайных точек (n): <input type="number" name="count" value="20" min="1" max="5000"></label>
                    <label>Радиус: <input type="number" name="radius" value="10" step="any"></label>
                    <input type="submit" value="Сгенерировать">
                </form>
                <form method="POST">
                    <input type="hidden" name="action" value="clear">
                    <input type="submit" value="Удалить все">
                    <a href="/hull.obj">hull.obj</a>
                    <a href="/anchors.csv">anchors.csv</a>
                </form>
    `

	// Anchors is an html/template for the table of anchor points.
	Anchors = `
                <table>
                    <tr><th></th><th>x</th><th>y</th><th>z</th><th>зеркала</th><th></th></tr>
                    {{- range .}}
                    <tr>
                        <td><span class="swatch" style="background-color: {{.Color}};"></span></td>
                        <td>{{.X}}</td><td>{{.Y}}</td><td>{{.Z}}</td>
                        <td>{{.Mirrors}}</td>
                        <td>
                            <form method="POST" style="display: inline;">
                                <input type="hidden" name="id" value="{{.ID}}">
                                <button name="action" value="toggle">{{if .Enabled}}выкл{{else}}вкл{{end}}</button>
                                <button name="action" value="delete">удалить</button>
                            </form>
                        </td>
                    </tr>
                    {{- end}}
                </table>
    `

	Part2 = `
            </div>
            <div id="right-container">
                <h1>Логи</h1>
                <div id="logs">`

	Part3 = `
                </div>
            </div>
        </div>

        <script>
            document.querySelectorAll('form').forEach(function (form) {
                form.addEventListener('submit', function (e) {
                    e.preventDefault();
                    const formData = new FormData(this);
                    // кнопка с name/value в FormData не попадает
                    if (e.submitter && e.submitter.name) {
                        formData.set(e.submitter.name, e.submitter.value);
                    }
                    const params = new URLSearchParams(formData).toString();

                    fetch('/', {
                        method: 'POST',
                        body: params,
                        headers: {
                            'Content-Type': 'application/x-www-form-urlencoded'
                        }
                    })
                    .then(response => {
                        if (!response.ok) {
                            throw new Error('Ошибка при отправке данных');
                        }
                        return response.text();
                    })
                    .then(html => {
                        document.open();
                        document.write(html);
                        document.close();
                    })
                    .catch(error => {
                        console.error('Ошибка:', error);
                    });
                });
            });
        </script>
    </body>
    </html>
    `
)
